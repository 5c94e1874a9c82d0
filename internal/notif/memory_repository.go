package notif

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

// MemoryRepository is the in-process NotificationRepository used by the
// "memory" store driver and tests.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*dbmysql.Notification
}

var _ dbmysql.NotificationRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*dbmysql.Notification)}
}

func (r *MemoryRepository) Create(_ context.Context, n *dbmysql.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *MemoryRepository) ByID(_ context.Context, id string) (*dbmysql.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, common.NotFound("notifications.ByID", "notification %s not found", id)
	}
	cp := *n
	return &cp, nil
}

func (r *MemoryRepository) ByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*dbmysql.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*dbmysql.Notification
	for _, n := range r.items {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkAsRead(_ context.Context, id, recipientID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.IsRead || (recipientID != "" && n.RecipientID != recipientID) {
		return false, nil
	}
	n.IsRead = true
	n.ReadAt = &at
	return true, nil
}

func (r *MemoryRepository) MarkAllAsRead(_ context.Context, recipientID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			readAt := at
			n.ReadAt = &readAt
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryRepository) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, n := range r.items {
		if n.CreatedAt.Before(before) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}
