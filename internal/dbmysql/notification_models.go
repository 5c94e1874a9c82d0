package dbmysql

import (
	"time"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

type Notification struct { //Notification struct containing all the attributes for notification table
	ID              string                  `gorm:"primaryKey;size:36" json:"id"`
	RecipientID     string                  `gorm:"not null;size:64;index:idx_notifications_recipient_read,priority:1" json:"recipient_id"`
	Kind            common.NotificationKind `gorm:"not null;size:50" json:"kind"`
	Title           string                  `gorm:"not null;size:255" json:"title"`
	Body            string                  `gorm:"not null;type:text" json:"body"`
	RelatedEntityID *string                 `gorm:"size:64" json:"related_entity_id,omitempty"`
	ActionURL       *string                 `gorm:"size:512" json:"action_url,omitempty"`
	IsRead          bool                    `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2" json:"is_read"`
	ReadAt          *time.Time              `json:"read_at,omitempty"`
	CreatedAt       time.Time               `gorm:"index" json:"created_at"`
}
