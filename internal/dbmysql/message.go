package dbmysql

import (
	"time"

	"gorm.io/datatypes"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

type Message struct {
	ID             string             `gorm:"primaryKey;size:36" json:"id"`
	Seq            uint64             `gorm:"autoIncrement;uniqueIndex" json:"-"` // insertion order, breaks created_at ties
	ConversationID string             `gorm:"not null;size:36;index:idx_messages_conversation_created,priority:1" json:"conversation_id"`
	SenderID       string             `gorm:"not null;size:64;index" json:"sender_id"`
	Kind           common.MessageKind `gorm:"not null;size:30" json:"kind"`
	Body           string             `gorm:"type:text" json:"body,omitempty"`
	Payload        datatypes.JSON     `gorm:"type:json" json:"payload,omitempty"`
	CreatedAt      time.Time          `gorm:"index:idx_messages_conversation_created,priority:2" json:"created_at"`
	EditedAt       *time.Time         `json:"edited_at,omitempty"`
	DeletedAt      *time.Time         `json:"deleted_at,omitempty"` // soft delete marker, row stays in history
}

func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

// TypedPayload decodes the JSON payload into the type for the message kind.
func (m *Message) TypedPayload() (common.Payload, error) {
	return common.DecodePayload(m.Kind, m.Payload)
}

// Redact empties a deleted message's content for display.
func (m *Message) Redact() {
	if m.IsDeleted() {
		m.Body = ""
		m.Payload = nil
	}
}
