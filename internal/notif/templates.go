package notif

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

// Templates turn marketplace events into ready-to-send requests.
// They only format; nothing is stored until the request reaches Notify.

func ProposalNew(clientID, jobID, jobTitle, freelancerName string) Request {
	return Request{
		RecipientID:     clientID,
		Kind:            common.NotificationProposalNew,
		Title:           "New proposal",
		Body:            fmt.Sprintf("%s sent a proposal for \"%s\"", freelancerName, jobTitle),
		RelatedEntityID: jobID,
		ActionURL:       "/jobs/" + jobID + "/proposals",
	}
}

func ProposalAccepted(freelancerID, jobID, jobTitle string) Request {
	return Request{
		RecipientID:     freelancerID,
		Kind:            common.NotificationProposalAccepted,
		Title:           "Proposal accepted",
		Body:            fmt.Sprintf("Your proposal for \"%s\" was accepted", jobTitle),
		RelatedEntityID: jobID,
		ActionURL:       "/jobs/" + jobID,
	}
}

func ProposalRejected(freelancerID, jobID, jobTitle string) Request {
	return Request{
		RecipientID:     freelancerID,
		Kind:            common.NotificationProposalRejected,
		Title:           "Proposal declined",
		Body:            fmt.Sprintf("Your proposal for \"%s\" was not selected", jobTitle),
		RelatedEntityID: jobID,
		ActionURL:       "/jobs/" + jobID,
	}
}

func MessageNew(recipientID, conversationID, senderName, preview string) Request {
	return Request{
		RecipientID:     recipientID,
		Kind:            common.NotificationMessageNew,
		Title:           "New message from " + senderName,
		Body:            common.Truncate(preview, common.SummaryLimit),
		RelatedEntityID: conversationID,
		ActionURL:       "/messages/" + conversationID,
	}
}

func MilestoneSubmitted(clientID, projectID, milestoneTitle string) Request {
	return Request{
		RecipientID:     clientID,
		Kind:            common.NotificationMilestoneSubmitted,
		Title:           "Milestone submitted",
		Body:            fmt.Sprintf("\"%s\" is ready for your review", milestoneTitle),
		RelatedEntityID: projectID,
		ActionURL:       "/projects/" + projectID,
	}
}

func MilestoneApproved(freelancerID, projectID, milestoneTitle string) Request {
	return Request{
		RecipientID:     freelancerID,
		Kind:            common.NotificationMilestoneApproved,
		Title:           "Milestone approved",
		Body:            fmt.Sprintf("\"%s\" was approved", milestoneTitle),
		RelatedEntityID: projectID,
		ActionURL:       "/projects/" + projectID,
	}
}

func PaymentCompleted(recipientID, paymentID string, amount decimal.Decimal, currency string) Request {
	return Request{
		RecipientID:     recipientID,
		Kind:            common.NotificationPaymentCompleted,
		Title:           "Payment received",
		Body:            fmt.Sprintf("You received %s %s", amount.StringFixed(2), currency),
		RelatedEntityID: paymentID,
		ActionURL:       "/payments/" + paymentID,
	}
}

// ProjectCompleted returns the client and freelancer copies. Both carry the
// project id so the pair can be found together later.
func ProjectCompleted(clientID, freelancerID, projectID, projectTitle string) []Request {
	return []Request{
		{
			RecipientID:     clientID,
			Kind:            common.NotificationProjectCompleted,
			Title:           "Project completed",
			Body:            fmt.Sprintf("\"%s\" is complete. Leave a review for your freelancer", projectTitle),
			RelatedEntityID: projectID,
			ActionURL:       "/projects/" + projectID + "/review",
		},
		{
			RecipientID:     freelancerID,
			Kind:            common.NotificationProjectCompleted,
			Title:           "Project completed",
			Body:            fmt.Sprintf("Great work! \"%s\" was marked complete", projectTitle),
			RelatedEntityID: projectID,
			ActionURL:       "/projects/" + projectID,
		},
	}
}

func ReviewNew(recipientID, reviewID, reviewerName string, rating int) Request {
	return Request{
		RecipientID:     recipientID,
		Kind:            common.NotificationReviewNew,
		Title:           "New review",
		Body:            fmt.Sprintf("%s left you a %d-star review", reviewerName, rating),
		RelatedEntityID: reviewID,
		ActionURL:       "/reviews/" + reviewID,
	}
}

func System(recipientID, title, body string) Request {
	return Request{
		RecipientID: recipientID,
		Kind:        common.NotificationSystem,
		Title:       title,
		Body:        body,
	}
}

func (s *Service) SendProposalNew(ctx context.Context, clientID, jobID, jobTitle, freelancerName string) error {
	return s.sendEach(ctx, ProposalNew(clientID, jobID, jobTitle, freelancerName))
}

func (s *Service) SendProposalAccepted(ctx context.Context, freelancerID, jobID, jobTitle string) error {
	return s.sendEach(ctx, ProposalAccepted(freelancerID, jobID, jobTitle))
}

func (s *Service) SendProposalRejected(ctx context.Context, freelancerID, jobID, jobTitle string) error {
	return s.sendEach(ctx, ProposalRejected(freelancerID, jobID, jobTitle))
}

func (s *Service) SendMessageNew(ctx context.Context, recipientID, conversationID, senderName, preview string) error {
	return s.sendEach(ctx, MessageNew(recipientID, conversationID, senderName, preview))
}

func (s *Service) SendMilestoneSubmitted(ctx context.Context, clientID, projectID, milestoneTitle string) error {
	return s.sendEach(ctx, MilestoneSubmitted(clientID, projectID, milestoneTitle))
}

func (s *Service) SendMilestoneApproved(ctx context.Context, freelancerID, projectID, milestoneTitle string) error {
	return s.sendEach(ctx, MilestoneApproved(freelancerID, projectID, milestoneTitle))
}

func (s *Service) SendPaymentCompleted(ctx context.Context, recipientID, paymentID string, amount decimal.Decimal, currency string) error {
	return s.sendEach(ctx, PaymentCompleted(recipientID, paymentID, amount, currency))
}

func (s *Service) SendProjectCompleted(ctx context.Context, clientID, freelancerID, projectID, projectTitle string) error {
	return s.sendEach(ctx, ProjectCompleted(clientID, freelancerID, projectID, projectTitle)...)
}

func (s *Service) SendReviewNew(ctx context.Context, recipientID, reviewID, reviewerName string, rating int) error {
	return s.sendEach(ctx, ReviewNew(recipientID, reviewID, reviewerName, rating))
}

func (s *Service) SendSystem(ctx context.Context, recipientID, title, body string) error {
	return s.sendEach(ctx, System(recipientID, title, body))
}
