package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
)

const defaultContentType = "application/octet-stream"

// AttachmentStorage keeps message attachments in GridFS.
type AttachmentStorage struct {
	gridFS   *gridfs.Bucket
	baseURL  string
	maxBytes int64
}

var _ common.AttachmentStore = (*AttachmentStorage)(nil)

func NewAttachmentStorage(mongoClient *MongoClient, cfg *config.Config) *AttachmentStorage {
	return &AttachmentStorage{
		gridFS:   mongoClient.GridFS,
		baseURL:  cfg.Chat.AttachmentBaseURL,
		maxBytes: cfg.Chat.MaxAttachmentBytes,
	}
}

func (s *AttachmentStorage) Upload(ctx context.Context, conversationID, uploaderID, filename, contentType string, r io.Reader) (*common.Attachment, error) {
	const op = "attachments.Upload"
	if contentType == "" {
		contentType = defaultContentType
	}

	metadata := bson.M{
		"conversation_id": conversationID,
		"content_type":    contentType,
		"uploaded_by":     uploaderID,
		"uploaded_at":     time.Now().UTC(),
	}
	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := s.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, common.StoreUnavailable(op, fmt.Errorf("upload failed: %w", err))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(deadline)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	size, err := io.Copy(stream, src)
	if err != nil {
		_ = stream.Abort()
		return nil, common.StoreUnavailable(op, fmt.Errorf("file copy failed: %w", err))
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		_ = stream.Abort()
		return nil, common.InvalidContext(op, "attachment exceeds %d bytes", s.maxBytes)
	}
	if err := stream.Close(); err != nil {
		return nil, common.StoreUnavailable(op, fmt.Errorf("upload failed: %w", err))
	}

	id := stream.FileID.(primitive.ObjectID).Hex()
	return &common.Attachment{
		FileID:      id,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		URL:         s.url(id),

		ConversationID: conversationID,
	}, nil
}

func (s *AttachmentStorage) Open(ctx context.Context, fileID string) (io.ReadCloser, *common.Attachment, error) {
	const op = "attachments.Open"
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, common.InvalidContext(op, "invalid file ID %q", fileID)
	}

	stream, err := s.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, common.NotFound(op, "attachment %s not found", fileID)
		}
		return nil, nil, common.StoreUnavailable(op, fmt.Errorf("download failed: %w", err))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	file := stream.GetFile()
	var metadata bson.M
	if file.Metadata != nil {
		_ = bson.Unmarshal(file.Metadata, &metadata)
	}

	contentType := getStringFromMap(metadata, "content_type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return stream, &common.Attachment{
		FileID:      fileID,
		Filename:    file.Name,
		ContentType: contentType,
		Size:        file.Length,
		URL:         s.url(fileID),

		ConversationID: getStringFromMap(metadata, "conversation_id"),
	}, nil
}

func (s *AttachmentStorage) Delete(ctx context.Context, fileID string) error {
	const op = "attachments.Delete"
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return common.InvalidContext(op, "invalid file ID %q", fileID)
	}
	if err := s.gridFS.DeleteContext(ctx, objectID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return common.NotFound(op, "attachment %s not found", fileID)
		}
		return common.StoreUnavailable(op, err)
	}
	return nil
}

func (s *AttachmentStorage) url(fileID string) string {
	if s.baseURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + fileID
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
