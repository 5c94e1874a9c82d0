package common

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"io"
)

// UserDirectory answers whether a participant id is a known account.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// EntityDirectory checks jobs and projects referenced by a conversation context.
type EntityDirectory interface {
	EntityExists(ctx context.Context, kind ContextKind, entityID string) (bool, error)
}

// OrderDirectory knows which specialist fulfils an ai order.
type OrderDirectory interface {
	SpecialistFor(ctx context.Context, orderID string) (string, error)
}

// AttachmentStore keeps the bytes behind file and image messages. Every
// file remembers the conversation it was posted to.
type AttachmentStore interface {
	Upload(ctx context.Context, conversationID, uploaderID, filename, contentType string, r io.Reader) (*Attachment, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, *Attachment, error)
	Delete(ctx context.Context, fileID string) error
}
