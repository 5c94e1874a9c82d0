package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/repository"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
	"github.com/PlayraLive/h-ai-sub006/internal/metrics"
	"github.com/PlayraLive/h-ai-sub006/internal/telemetry"
)

// Delivery appends messages to conversations and keeps unread counters in step.
type Delivery struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	attachments   common.AttachmentStore

	pageSize    int
	maxPageSize int

	now   func() time.Time
	newID func() string
}

// NewDelivery wires message delivery. attachments may be nil, uploads then fail.
func NewDelivery(
	cfg *config.Config,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	attachments common.AttachmentStore,
) *Delivery {
	return &Delivery{
		conversations: conversations,
		messages:      messages,
		attachments:   attachments,
		pageSize:      cfg.Chat.PageSize,
		maxPageSize:   cfg.Chat.MaxPageSize,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

// Send stores a message from senderID and bumps every other participant's counter.
func (d *Delivery) Send(ctx context.Context, conversationID, senderID string, kind common.MessageKind, body common.Body) (msg *dbmysql.Message, err error) {
	const op = "delivery.Send"

	ctx, span := telemetry.Start(ctx, op)
	defer func() { telemetry.End(span, err) }()

	raw, err := validateBody(op, kind, body)
	if err != nil {
		return nil, err
	}

	conv, err := loadForParticipant(ctx, d.conversations, op, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if conv.Archived {
		return nil, common.InvalidContext(op, "conversation %s is archived", conversationID)
	}

	msg = &dbmysql.Message{
		ID:             d.newID(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Kind:           kind,
		Body:           body.Text,
		Payload:        raw,
		CreatedAt:      d.now(),
	}

	if err := d.messages.Append(ctx, msg, common.Summarize(kind, body)); err != nil {
		return nil, err
	}

	metrics.RecordMessage(kind.String())
	log.Ctx(ctx).Debug().
		Str("conversation_id", conv.ID).
		Str("message_id", msg.ID).
		Str("kind", kind.String()).
		Msg("message sent")
	return msg, nil
}

func validateBody(op string, kind common.MessageKind, body common.Body) ([]byte, error) {
	if !kind.IsValid() {
		return nil, common.InvalidContext(op, "unknown message kind %q", kind)
	}

	if kind.RequiresText() {
		if strings.TrimSpace(body.Text) == "" {
			return nil, common.InvalidContext(op, "%s message needs text", kind)
		}
		if body.Payload != nil {
			return nil, common.InvalidContext(op, "%s message cannot carry a payload", kind)
		}
		return nil, nil
	}

	if body.Payload == nil {
		return nil, common.InvalidContext(op, "%s message needs a payload", kind)
	}
	if !body.Payload.Accepts(kind) {
		return nil, common.InvalidContext(op, "payload does not match kind %s", kind)
	}
	if err := common.ValidateStruct(body.Payload); err != nil {
		return nil, common.InvalidContext(op, "invalid %s payload: %s", kind, err.Error())
	}

	raw, err := common.EncodePayload(body.Payload)
	if err != nil {
		return nil, common.InvalidContext(op, "cannot encode %s payload: %s", kind, err.Error())
	}
	return raw, nil
}

// SendAttachment uploads the file and posts it as a file or image message.
func (d *Delivery) SendAttachment(ctx context.Context, conversationID, senderID, filename, contentType string, r io.Reader) (*dbmysql.Message, error) {
	const op = "delivery.SendAttachment"

	if d.attachments == nil {
		return nil, common.InvalidContext(op, "attachments are not enabled")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, common.InvalidContext(op, "filename is required")
	}

	conv, err := loadForParticipant(ctx, d.conversations, op, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if conv.Archived {
		return nil, common.InvalidContext(op, "conversation %s is archived", conversationID)
	}

	att, err := d.attachments.Upload(ctx, conv.ID, senderID, filename, contentType, r)
	if err != nil {
		return nil, asStoreError(op, err)
	}

	msg, err := d.Send(ctx, conversationID, senderID, common.DetectAttachmentKind(att.ContentType), common.Body{Payload: *att})
	if err != nil {
		if derr := d.attachments.Delete(context.WithoutCancel(ctx), att.FileID); derr != nil {
			log.Ctx(ctx).Warn().Err(derr).Str("file_id", att.FileID).Msg("failed to remove orphaned attachment")
		}
		return nil, err
	}
	return msg, nil
}

// History pages a conversation newest first. Deleted messages keep their
// place but lose their content.
func (d *Delivery) History(ctx context.Context, conversationID, viewerID string, limit, offset int) ([]*dbmysql.Message, error) {
	if _, err := loadForParticipant(ctx, d.conversations, "delivery.History", conversationID, viewerID); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset, d.pageSize, d.maxPageSize)
	messages, err := d.messages.ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		m.Redact()
	}
	return messages, nil
}

// Edit replaces the text of the editor's own text message.
func (d *Delivery) Edit(ctx context.Context, messageID, editorID, text string) (*dbmysql.Message, error) {
	const op = "delivery.Edit"

	msg, err := d.ownMessage(ctx, op, messageID, editorID)
	if err != nil {
		return nil, err
	}
	if msg.Kind != common.MessageText {
		return nil, common.InvalidContext(op, "only text messages can be edited")
	}
	if msg.IsDeleted() {
		return nil, common.InvalidContext(op, "message %s was deleted", messageID)
	}
	if strings.TrimSpace(text) == "" {
		return nil, common.InvalidContext(op, "text message needs text")
	}

	at := d.now()
	if err := d.messages.UpdateBody(ctx, messageID, text, at); err != nil {
		return nil, err
	}
	msg.Body = text
	msg.EditedAt = &at
	return msg, nil
}

// Delete soft deletes the requester's own message. Deleting again is a no-op.
// Counters and the conversation summary are left as they were.
func (d *Delivery) Delete(ctx context.Context, messageID, requesterID string) error {
	const op = "delivery.Delete"

	msg, err := d.ownMessage(ctx, op, messageID, requesterID)
	if err != nil {
		return err
	}
	if msg.IsDeleted() {
		return nil
	}
	return d.messages.SoftDelete(ctx, messageID, d.now())
}

func (d *Delivery) ownMessage(ctx context.Context, op, messageID, userID string) (*dbmysql.Message, error) {
	if messageID == "" {
		return nil, common.InvalidContext(op, "message id is required")
	}
	msg, err := d.messages.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, common.NotAParticipant(op, "%s did not send message %s", userID, messageID)
	}
	return msg, nil
}
