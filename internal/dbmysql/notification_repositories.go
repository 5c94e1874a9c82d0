package dbmysql

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ByID(ctx context.Context, id string) (*Notification, error)
	ByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*Notification, error)
	// MarkAsRead flips an unread row to read. An empty recipientID matches any owner.
	// It reports whether a row changed.
	MarkAsRead(ctx context.Context, id, recipientID string, at time.Time) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientID string, at time.Time) (int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return TranslateError("notifications.Create", "notification", err)
	}
	return nil
}

func (r *notificationRepository) ByID(ctx context.Context, id string) (*Notification, error) {
	var notification Notification

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, TranslateError("notifications.ByID", "notification "+id, err)
	}

	return &notification, nil
}

func (r *notificationRepository) ByRecipient(
	ctx context.Context,
	recipientID string,
	unreadOnly bool,
	limit, offset int,
) ([]*Notification, error) {
	var notifications []*Notification

	query := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID)

	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	query = query.Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, TranslateError("notifications.ByRecipient", "notifications", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, recipientID string, at time.Time) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND is_read = ?", id, false)

	if recipientID != "" {
		query = query.Where("recipient_id = ?", recipientID)
	}

	result := query.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": at,
	})

	if result.Error != nil {
		return false, TranslateError("notifications.MarkAsRead", "notification "+id, result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})

	if result.Error != nil {
		return 0, TranslateError("notifications.MarkAllAsRead", "notifications", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error

	if err != nil {
		return 0, TranslateError("notifications.UnreadCount", "notifications", err)
	}

	return count, nil
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&Notification{})

	if result.Error != nil {
		return 0, TranslateError("notifications.DeleteOlderThan", "notifications", result.Error)
	}

	return result.RowsAffected, nil
}
