// Package events turns marketplace business events into conversation
// messages and notifications.
package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/service"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
	"github.com/PlayraLive/h-ai-sub006/internal/notif"
)

type Bridge struct {
	resolver      *service.Resolver
	delivery      *service.Delivery
	notifications *notif.Service
}

func NewBridge(resolver *service.Resolver, delivery *service.Delivery, notifications *notif.Service) *Bridge {
	return &Bridge{
		resolver:      resolver,
		delivery:      delivery,
		notifications: notifications,
	}
}

type ProposalEvent struct {
	JobID          string          `json:"job_id" validate:"required"`
	JobTitle       string          `json:"job_title" validate:"required"`
	ProposalID     string          `json:"proposal_id" validate:"required"`
	ClientID       string          `json:"client_id" validate:"required"`
	FreelancerID   string          `json:"freelancer_id" validate:"required"`
	FreelancerName string          `json:"freelancer_name"`
	Budget         decimal.Decimal `json:"budget"`
	Currency       string          `json:"currency"`
}

func (e ProposalEvent) card(status string) common.JobCard {
	return common.JobCard{
		JobID:      e.JobID,
		ProposalID: e.ProposalID,
		Title:      e.JobTitle,
		Budget:     e.Budget,
		Currency:   e.Currency,
		Status:     status,
	}
}

// ProposalSubmitted posts the proposal card from the freelancer and tells the client.
func (b *Bridge) ProposalSubmitted(ctx context.Context, e ProposalEvent) (string, error) {
	convID, err := b.postJobCard(ctx, e, e.FreelancerID, "submitted")
	if err != nil {
		return "", err
	}
	name := e.FreelancerName
	if name == "" {
		name = "A freelancer"
	}
	return convID, b.afterSend(ctx, convID, b.notifications.SendProposalNew(ctx, e.ClientID, e.JobID, e.JobTitle, name))
}

// ProposalAccepted posts the accepted card from the client and tells the freelancer.
func (b *Bridge) ProposalAccepted(ctx context.Context, e ProposalEvent) (string, error) {
	convID, err := b.postJobCard(ctx, e, e.ClientID, "accepted")
	if err != nil {
		return "", err
	}
	return convID, b.afterSend(ctx, convID, b.notifications.SendProposalAccepted(ctx, e.FreelancerID, e.JobID, e.JobTitle))
}

func (b *Bridge) ProposalRejected(ctx context.Context, e ProposalEvent) (string, error) {
	convID, err := b.postJobCard(ctx, e, e.ClientID, "rejected")
	if err != nil {
		return "", err
	}
	return convID, b.afterSend(ctx, convID, b.notifications.SendProposalRejected(ctx, e.FreelancerID, e.JobID, e.JobTitle))
}

func (b *Bridge) postJobCard(ctx context.Context, e ProposalEvent, senderID, status string) (string, error) {
	if err := common.ValidateStruct(e); err != nil {
		return "", common.InvalidContext("events.proposal", "%s", err.Error())
	}
	convID, _, err := b.resolver.Resolve(ctx, e.ClientID, e.FreelancerID, common.Job(e.JobID))
	if err != nil {
		return "", err
	}
	if _, err := b.delivery.Send(ctx, convID, senderID, common.MessageJobCard, common.Body{Payload: e.card(status)}); err != nil {
		return "", err
	}
	return convID, nil
}

type AIOrderEvent struct {
	OrderID      string          `json:"order_id" validate:"required"`
	ClientID     string          `json:"client_id" validate:"required"`
	SpecialistID string          `json:"specialist_id"`
	ServiceName  string          `json:"service_name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
}

// AIOrderPlaced opens the order conversation and posts the order card as the client.
// An empty SpecialistID is looked up from the order.
func (b *Bridge) AIOrderPlaced(ctx context.Context, e AIOrderEvent) (string, error) {
	if err := common.ValidateStruct(e); err != nil {
		return "", common.InvalidContext("events.AIOrderPlaced", "%s", err.Error())
	}
	convID, _, err := b.resolver.Resolve(ctx, e.ClientID, e.SpecialistID, common.AIOrder(e.OrderID, e.SpecialistID))
	if err != nil {
		return "", err
	}

	conv, err := b.resolver.Get(ctx, convID, e.ClientID)
	if err != nil {
		return "", err
	}
	card := common.AIOrderCard{
		OrderID:      e.OrderID,
		SpecialistID: conv.SpecialistID,
		ServiceName:  e.ServiceName,
		Price:        e.Price,
		Currency:     e.Currency,
		Status:       "placed",
	}
	if _, err := b.delivery.Send(ctx, convID, e.ClientID, common.MessageAIOrderCard, common.Body{Payload: card}); err != nil {
		return "", err
	}
	return convID, nil
}

// SpecialistReply posts text from the automated specialist of an order conversation.
func (b *Bridge) SpecialistReply(ctx context.Context, conversationID, specialistID, text string) (*dbmysql.Message, error) {
	return b.DeliverMessage(ctx, conversationID, specialistID, "AI specialist", common.MessageText, common.Body{Text: text})
}

// DeliverMessage sends a chat message and tells every human receiver about it.
// The message stays sent when a notification fails; the error is still returned.
func (b *Bridge) DeliverMessage(ctx context.Context, conversationID, senderID, senderName string, kind common.MessageKind, body common.Body) (*dbmysql.Message, error) {
	msg, err := b.delivery.Send(ctx, conversationID, senderID, kind, body)
	if err != nil {
		return nil, err
	}

	conv, err := b.resolver.Get(ctx, conversationID, senderID)
	if err != nil {
		return msg, b.afterSend(ctx, conversationID, err)
	}
	if senderName == "" {
		senderName = senderID
	}
	preview := common.Summarize(kind, body)

	var reqs []notif.Request
	for _, p := range conv.ParticipantIDs() {
		if p == senderID || (conv.SpecialistID != "" && p == conv.SpecialistID) {
			continue
		}
		reqs = append(reqs, notif.MessageNew(p, conversationID, senderName, preview))
	}
	if len(reqs) == 0 {
		return msg, nil
	}
	return msg, b.afterSend(ctx, conversationID, b.notifications.NotifyAll(ctx, reqs).Err())
}

func (b *Bridge) MilestoneSubmitted(ctx context.Context, clientID, projectID, milestoneTitle string) error {
	return b.notifications.SendMilestoneSubmitted(ctx, clientID, projectID, milestoneTitle)
}

func (b *Bridge) MilestoneApproved(ctx context.Context, freelancerID, projectID, milestoneTitle string) error {
	return b.notifications.SendMilestoneApproved(ctx, freelancerID, projectID, milestoneTitle)
}

func (b *Bridge) PaymentCompleted(ctx context.Context, recipientID, paymentID string, amount decimal.Decimal, currency string) error {
	return b.notifications.SendPaymentCompleted(ctx, recipientID, paymentID, amount, currency)
}

// ProjectCompleted notifies both sides of a finished project.
func (b *Bridge) ProjectCompleted(ctx context.Context, clientID, freelancerID, projectID, projectTitle string) error {
	return b.notifications.SendProjectCompleted(ctx, clientID, freelancerID, projectID, projectTitle)
}

func (b *Bridge) ReviewPosted(ctx context.Context, revieweeID, reviewID, reviewerName string, rating int) error {
	if rating < 1 || rating > 5 {
		return common.InvalidContext("events.ReviewPosted", "rating %d out of range", rating)
	}
	return b.notifications.SendReviewNew(ctx, revieweeID, reviewID, reviewerName, rating)
}

// afterSend logs a notification failure that followed a successful chat send.
func (b *Bridge) afterSend(ctx context.Context, conversationID string, err error) error {
	if err == nil {
		return nil
	}
	log.Ctx(ctx).Error().Err(err).Str("conversation_id", conversationID).Msg("message sent but notification failed")
	return fmt.Errorf("notify after send: %w", err)
}
