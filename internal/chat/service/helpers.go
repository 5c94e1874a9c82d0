package service

import (
	"context"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/repository"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

func loadForParticipant(ctx context.Context, convs repository.ConversationRepository, op, conversationID, participantID string) (*dbmysql.Conversation, error) {
	if conversationID == "" {
		return nil, common.InvalidContext(op, "conversation id is required")
	}
	conv, err := convs.ByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(participantID) {
		return nil, common.NotAParticipant(op, "%s is not a participant of %s", participantID, conversationID)
	}
	return conv, nil
}

// asStoreError keeps typed errors and treats anything else from a
// collaborator as the store being unavailable.
func asStoreError(op string, err error) error {
	if common.KindOf(err) != "" {
		return err
	}
	return common.StoreUnavailable(op, err)
}

func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
