package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) FindActive(ctx context.Context, activeKey string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("active_key = ?", activeKey).
		First(&conv).Error
	if err != nil {
		return nil, dbmysql.TranslateError("conversations.FindActive", "conversation", err)
	}
	return &conv, nil
}

func (r *conversationRepo) ByID(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("id = ?", id).
		First(&conv).Error
	if err != nil {
		return nil, dbmysql.TranslateError("conversations.ByID", "conversation "+id, err)
	}
	return &conv, nil
}

func (r *conversationRepo) Create(ctx context.Context, conv *dbmysql.Conversation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(conv).Error; err != nil {
			return err
		}
		for i := range conv.Participants {
			conv.Participants[i].ConversationID = conv.ID
		}
		return tx.Create(&conv.Participants).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateConversation
	}
	return dbmysql.TranslateError("conversations.Create", "conversation", err)
}

func (r *conversationRepo) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Conversation, error) {
	var convs []*dbmysql.Conversation

	query := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ? AND conversations.archived = ?", userID, false).
		Order("conversations.last_message_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&convs).Error; err != nil {
		return nil, dbmysql.TranslateError("conversations.ListByParticipant", "conversations", err)
	}
	return convs, nil
}

// Archive clears the active key so a fresh conversation can be resolved later.
func (r *conversationRepo) Archive(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"archived":   true,
			"active_key": nil,
			"updated_at": at,
		})
	if result.Error != nil {
		return dbmysql.TranslateError("conversations.Archive", "conversation "+id, result.Error)
	}
	if result.RowsAffected == 0 {
		return dbmysql.TranslateError("conversations.Archive", "conversation "+id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *conversationRepo) ResetUnread(ctx context.Context, conversationID, userID string) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		UpdateColumn("unread_count", 0).Error
	return dbmysql.TranslateError("conversations.ResetUnread", "participant", err)
}

func (r *conversationRepo) UnreadConversationIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&dbmysql.ConversationParticipant{}).
		Where("user_id = ? AND unread_count > ?", userID, 0).
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, dbmysql.TranslateError("conversations.UnreadConversationIDs", "participants", err)
	}
	return ids, nil
}

func (r *conversationRepo) UnreadTotal(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.ConversationParticipant{}).
		Select("COALESCE(SUM(conversation_participants.unread_count), 0)").
		Joins("JOIN conversations ON conversations.id = conversation_participants.conversation_id").
		Where("conversation_participants.user_id = ? AND conversations.archived = ?", userID, false).
		Scan(&total).Error
	if err != nil {
		return 0, dbmysql.TranslateError("conversations.UnreadTotal", "participants", err)
	}
	return total, nil
}
