package dbmysql

import (
	"time"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

type Conversation struct {
	ID                 string             `gorm:"primaryKey;size:36" json:"id"`
	PairKey            string             `gorm:"not null;size:130;index" json:"-"`
	ActiveKey          *string            `gorm:"size:255;uniqueIndex" json:"-"` // NULL once archived
	ContextKind        common.ContextKind `gorm:"not null;size:20;default:'none'" json:"context_kind"`
	ContextID          string             `gorm:"size:64;index" json:"context_id,omitempty"`
	SpecialistID       string             `gorm:"size:64" json:"specialist_id,omitempty"`
	LastMessageSummary string             `gorm:"size:512" json:"last_message_summary"`
	LastMessageAt      time.Time          `gorm:"index" json:"last_message_at"`
	LastMessageBy      string             `gorm:"size:64" json:"last_message_by,omitempty"`
	Archived           bool               `gorm:"not null;default:false" json:"archived"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants"`
}

// ConversationParticipant is one member of a conversation with their unread counter.
type ConversationParticipant struct {
	ConversationID string    `gorm:"primaryKey;size:36" json:"-"`
	UserID         string    `gorm:"primaryKey;size:64;index" json:"user_id"`
	UnreadCount    int       `gorm:"not null;default:0" json:"unread_count"`
	JoinedAt       time.Time `json:"joined_at"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (c *Conversation) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// UnreadCounts maps each participant to their unread message count.
func (c *Conversation) UnreadCounts() map[string]int {
	counts := make(map[string]int, len(c.Participants))
	for _, p := range c.Participants {
		counts[p.UserID] = p.UnreadCount
	}
	return counts
}

// Context rebuilds the descriptor the conversation was resolved with.
func (c *Conversation) Context() common.ContextDescriptor {
	return common.ContextDescriptor{Kind: c.ContextKind, EntityID: c.ContextID, SpecialistID: c.SpecialistID}
}
