package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

// MemoryStore keeps conversations and messages in process. It backs the
// "memory" store driver for local runs and the service tests, and follows
// the same uniqueness and atomicity rules as the MySQL repositories.
type MemoryStore struct {
	mu       sync.Mutex
	convs    map[string]*dbmysql.Conversation
	active   map[string]string // active key -> conversation id
	messages map[string]*dbmysql.Message
	seq      uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		convs:    make(map[string]*dbmysql.Conversation),
		active:   make(map[string]string),
		messages: make(map[string]*dbmysql.Message),
	}
}

// Conversations exposes the store as a ConversationRepository.
func (s *MemoryStore) Conversations() ConversationRepository {
	return memoryConversations{s}
}

// Messages exposes the store as a MessageRepository.
func (s *MemoryStore) Messages() MessageRepository {
	return memoryMessages{s}
}

func copyConversation(c *dbmysql.Conversation) *dbmysql.Conversation {
	cp := *c
	cp.Participants = append([]dbmysql.ConversationParticipant(nil), c.Participants...)
	if c.ActiveKey != nil {
		key := *c.ActiveKey
		cp.ActiveKey = &key
	}
	return &cp
}

func copyMessage(m *dbmysql.Message) *dbmysql.Message {
	cp := *m
	cp.Payload = append([]byte(nil), m.Payload...)
	return &cp
}

type memoryConversations struct{ s *MemoryStore }

func (r memoryConversations) FindActive(_ context.Context, activeKey string) (*dbmysql.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.active[activeKey]
	if !ok {
		return nil, common.NotFound("conversations.FindActive", "conversation not found")
	}
	return copyConversation(r.s.convs[id]), nil
}

func (r memoryConversations) ByID(_ context.Context, id string) (*dbmysql.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conv, ok := r.s.convs[id]
	if !ok {
		return nil, common.NotFound("conversations.ByID", "conversation %s not found", id)
	}
	return copyConversation(conv), nil
}

func (r memoryConversations) Create(_ context.Context, conv *dbmysql.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if conv.ActiveKey != nil {
		if _, taken := r.s.active[*conv.ActiveKey]; taken {
			return ErrDuplicateConversation
		}
		r.s.active[*conv.ActiveKey] = conv.ID
	}
	for i := range conv.Participants {
		conv.Participants[i].ConversationID = conv.ID
	}
	r.s.convs[conv.ID] = copyConversation(conv)
	return nil
}

func (r memoryConversations) ListByParticipant(_ context.Context, userID string, limit, offset int) ([]*dbmysql.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*dbmysql.Conversation
	for _, c := range r.s.convs {
		if !c.Archived && c.HasParticipant(userID) {
			out = append(out, copyConversation(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return page(out, limit, offset), nil
}

func (r memoryConversations) Archive(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conv, ok := r.s.convs[id]
	if !ok {
		return common.NotFound("conversations.Archive", "conversation %s not found", id)
	}
	if conv.ActiveKey != nil {
		delete(r.s.active, *conv.ActiveKey)
	}
	conv.ActiveKey = nil
	conv.Archived = true
	conv.UpdatedAt = at
	return nil
}

func (r memoryConversations) ResetUnread(_ context.Context, conversationID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if conv, ok := r.s.convs[conversationID]; ok {
		for i := range conv.Participants {
			if conv.Participants[i].UserID == userID {
				conv.Participants[i].UnreadCount = 0
			}
		}
	}
	return nil
}

func (r memoryConversations) UnreadConversationIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []string
	for id, conv := range r.s.convs {
		if conv.UnreadCounts()[userID] > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r memoryConversations) UnreadTotal(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var total int64
	for _, conv := range r.s.convs {
		if conv.Archived {
			continue
		}
		total += int64(conv.UnreadCounts()[userID])
	}
	return total, nil
}

type memoryMessages struct{ s *MemoryStore }

func (r memoryMessages) Append(_ context.Context, msg *dbmysql.Message, summary string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conv, ok := r.s.convs[msg.ConversationID]
	if !ok {
		return common.NotFound("messages.Append", "conversation %s not found", msg.ConversationID)
	}

	r.s.seq++
	msg.Seq = r.s.seq
	r.s.messages[msg.ID] = copyMessage(msg)

	conv.LastMessageSummary = summary
	conv.LastMessageAt = msg.CreatedAt
	conv.LastMessageBy = msg.SenderID
	conv.UpdatedAt = msg.CreatedAt
	for i := range conv.Participants {
		if conv.Participants[i].UserID != msg.SenderID {
			conv.Participants[i].UnreadCount++
		}
	}
	return nil
}

func (r memoryMessages) ByID(_ context.Context, id string) (*dbmysql.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg, ok := r.s.messages[id]
	if !ok {
		return nil, common.NotFound("messages.ByID", "message %s not found", id)
	}
	return copyMessage(msg), nil
}

func (r memoryMessages) ListByConversation(_ context.Context, conversationID string, limit, offset int) ([]*dbmysql.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*dbmysql.Message
	for _, m := range r.s.messages {
		if m.ConversationID == conversationID {
			out = append(out, copyMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return page(out, limit, offset), nil
}

func (r memoryMessages) UpdateBody(_ context.Context, id, body string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg, ok := r.s.messages[id]
	if !ok || msg.IsDeleted() {
		return common.NotFound("messages.UpdateBody", "message %s not found", id)
	}
	msg.Body = body
	msg.EditedAt = &at
	return nil
}

func (r memoryMessages) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if msg, ok := r.s.messages[id]; ok && !msg.IsDeleted() {
		msg.DeletedAt = &at
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
