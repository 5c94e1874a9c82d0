package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Append(ctx context.Context, msg *dbmysql.Message, summary string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		result := tx.Model(&dbmysql.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"last_message_summary": summary,
				"last_message_at":      msg.CreatedAt,
				"last_message_by":      msg.SenderID,
				"updated_at":           msg.CreatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&dbmysql.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id <> ?", msg.ConversationID, msg.SenderID).
			UpdateColumn("unread_count", gorm.Expr("unread_count + ?", 1)).Error
	})
	return dbmysql.TranslateError("messages.Append", "conversation "+msg.ConversationID, err)
}

func (r *messageRepo) ByID(ctx context.Context, id string) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, dbmysql.TranslateError("messages.ByID", "message "+id, err)
	}
	return &msg, nil
}

func (r *messageRepo) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message

	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, seq DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, dbmysql.TranslateError("messages.ListByConversation", "messages", err)
	}
	return messages, nil
}

func (r *messageRepo) UpdateBody(ctx context.Context, id, body string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"body":      body,
			"edited_at": at,
		})
	if result.Error != nil {
		return dbmysql.TranslateError("messages.UpdateBody", "message "+id, result.Error)
	}
	if result.RowsAffected == 0 {
		return dbmysql.TranslateError("messages.UpdateBody", "message "+id, gorm.ErrRecordNotFound)
	}
	return nil
}

// SoftDelete marks the message deleted. Deleting twice keeps the first timestamp.
func (r *messageRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", at).Error
	return dbmysql.TranslateError("messages.SoftDelete", "message "+id, err)
}
