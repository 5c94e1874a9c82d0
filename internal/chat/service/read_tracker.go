package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/repository"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

// ReadTracker clears unread counters.
type ReadTracker struct {
	conversations repository.ConversationRepository
}

func NewReadTracker(conversations repository.ConversationRepository) *ReadTracker {
	return &ReadTracker{conversations: conversations}
}

// MarkRead zeroes participantID's counter in one conversation.
func (t *ReadTracker) MarkRead(ctx context.Context, conversationID, participantID string) error {
	conv, err := loadForParticipant(ctx, t.conversations, "readTracker.MarkRead", conversationID, participantID)
	if err != nil {
		return err
	}
	return t.conversations.ResetUnread(ctx, conv.ID, participantID)
}

// MarkAllRead zeroes every non-zero counter of participantID. Each reset stands
// alone: failures are joined into the returned error next to the count that
// did succeed, and a retry picks up whatever is still unread.
func (t *ReadTracker) MarkAllRead(ctx context.Context, participantID string) (int, error) {
	const op = "readTracker.MarkAllRead"

	if err := common.ValidateParticipantID(participantID); err != nil {
		return 0, common.InvalidContext(op, "%s", err.Error())
	}

	ids, err := t.conversations.UnreadConversationIDs(ctx, participantID)
	if err != nil {
		return 0, err
	}

	var (
		reset int
		errs  []error
	)
	for _, id := range ids {
		if err := t.conversations.ResetUnread(ctx, id, participantID); err != nil {
			errs = append(errs, fmt.Errorf("conversation %s: %w", id, err))
			continue
		}
		reset++
	}

	if len(errs) > 0 {
		log.Ctx(ctx).Warn().Int("reset", reset).Int("failed", len(errs)).Str("participant_id", participantID).Msg("mark all read incomplete")
	}
	return reset, errors.Join(errs...)
}

// UnreadTotal sums participantID's counters across live conversations.
// Archived conversations keep their counters but no longer add to the total.
func (t *ReadTracker) UnreadTotal(ctx context.Context, participantID string) (int64, error) {
	if err := common.ValidateParticipantID(participantID); err != nil {
		return 0, common.InvalidContext("readTracker.UnreadTotal", "%s", err.Error())
	}
	return t.conversations.UnreadTotal(ctx, participantID)
}
