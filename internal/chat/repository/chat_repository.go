package repository

//go:generate mockgen -source=chat_repository.go -destination=mocks/mock_chat_repository.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

// ErrDuplicateConversation is returned by Create when another live conversation
// already holds the same active key.
var ErrDuplicateConversation = errors.New("conversation already exists for this pair and context")

type ConversationRepository interface {
	FindActive(ctx context.Context, activeKey string) (*dbmysql.Conversation, error)
	ByID(ctx context.Context, id string) (*dbmysql.Conversation, error)
	// Create stores the conversation and its participant rows in one transaction.
	Create(ctx context.Context, conv *dbmysql.Conversation) error
	ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Conversation, error)
	Archive(ctx context.Context, id string, at time.Time) error
	ResetUnread(ctx context.Context, conversationID, userID string) error
	UnreadConversationIDs(ctx context.Context, userID string) ([]string, error)
	// UnreadTotal sums the user's counters over live conversations only.
	UnreadTotal(ctx context.Context, userID string) (int64, error)
}

type MessageRepository interface {
	// Append writes the message, refreshes the conversation summary and bumps
	// every other participant's unread counter, all or nothing.
	Append(ctx context.Context, msg *dbmysql.Message, summary string) error
	ByID(ctx context.Context, id string) (*dbmysql.Message, error)
	// ListByConversation pages newest first.
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*dbmysql.Message, error)
	UpdateBody(ctx context.Context, id, body string, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
