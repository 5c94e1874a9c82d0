package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ContextKind says what a conversation is about.
type ContextKind string

const (
	ContextNone    ContextKind = "none"
	ContextJob     ContextKind = "job"
	ContextProject ContextKind = "project"
	ContextAIOrder ContextKind = "ai_order"
)

func (k ContextKind) String() string {
	return string(k)
}

func (k ContextKind) IsValid() bool {
	switch k {
	case ContextNone, ContextJob, ContextProject, ContextAIOrder:
		return true
	}
	return false
}

// ContextDescriptor pins a conversation to a business entity.
// EntityID is empty for direct chats. SpecialistID only matters for ai orders.
type ContextDescriptor struct {
	Kind         ContextKind `json:"kind"`
	EntityID     string      `json:"entity_id,omitempty"`
	SpecialistID string      `json:"specialist_id,omitempty"`
}

func Direct() ContextDescriptor {
	return ContextDescriptor{Kind: ContextNone}
}

func Job(jobID string) ContextDescriptor {
	return ContextDescriptor{Kind: ContextJob, EntityID: jobID}
}

func Project(projectID string) ContextDescriptor {
	return ContextDescriptor{Kind: ContextProject, EntityID: projectID}
}

// AIOrder builds an ai order context. specialistID may be empty, the
// resolver then looks it up from the order.
func AIOrder(orderID, specialistID string) ContextDescriptor {
	return ContextDescriptor{Kind: ContextAIOrder, EntityID: orderID, SpecialistID: specialistID}
}

// Validate checks the descriptor shape only, not whether the entity exists.
func (c ContextDescriptor) Validate() error {
	if c.Kind == "" {
		c.Kind = ContextNone
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("unknown context kind %q", c.Kind)
	}
	if c.Kind == ContextNone {
		if c.EntityID != "" {
			return errors.New("direct conversation cannot reference an entity")
		}
		return nil
	}
	if strings.TrimSpace(c.EntityID) == "" {
		return fmt.Errorf("%s context requires an entity id", c.Kind)
	}
	if c.Kind != ContextAIOrder && c.SpecialistID != "" {
		return fmt.Errorf("%s context cannot carry a specialist", c.Kind)
	}
	return nil
}

// Normalized fills in the implicit direct kind.
func (c ContextDescriptor) Normalized() ContextDescriptor {
	if c.Kind == "" {
		c.Kind = ContextNone
	}
	return c
}

// keySeparator never occurs in a valid participant id.
const keySeparator = "|"

// PairKey is the order independent key of two participants.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + keySeparator + ids[1]
}

// ActiveKey identifies the single live conversation for a pair and context.
func ActiveKey(a, b string, c ContextDescriptor) string {
	c = c.Normalized()
	return fmt.Sprintf("%s|%s|%s", PairKey(a, b), c.Kind, c.EntityID)
}

// MessageKind is the type of a chat message.
type MessageKind string

const (
	MessageText            MessageKind = "text"
	MessageSystem          MessageKind = "system"
	MessageJobCard         MessageKind = "job_card"
	MessageAIOrderCard     MessageKind = "ai_order_card"
	MessageMilestoneUpdate MessageKind = "milestone_update"
	MessagePaymentUpdate   MessageKind = "payment_update"
	MessageFile            MessageKind = "file"
	MessageImage           MessageKind = "image"
)

func (k MessageKind) String() string {
	return string(k)
}

func (k MessageKind) IsValid() bool {
	return k.RequiresText() || k.IsStructured()
}

// RequiresText reports kinds whose content is plain text.
func (k MessageKind) RequiresText() bool {
	return k == MessageText || k == MessageSystem
}

// IsStructured reports kinds that carry a typed payload.
func (k MessageKind) IsStructured() bool {
	switch k {
	case MessageJobCard, MessageAIOrderCard, MessageMilestoneUpdate,
		MessagePaymentUpdate, MessageFile, MessageImage:
		return true
	}
	return false
}

// NotificationKind classifies a user notification.
type NotificationKind string

const (
	NotificationProposalNew        NotificationKind = "proposal_new"
	NotificationProposalAccepted   NotificationKind = "proposal_accepted"
	NotificationProposalRejected   NotificationKind = "proposal_rejected"
	NotificationMessageNew         NotificationKind = "message_new"
	NotificationMilestoneSubmitted NotificationKind = "milestone_submitted"
	NotificationMilestoneApproved  NotificationKind = "milestone_approved"
	NotificationPaymentCompleted   NotificationKind = "payment_completed"
	NotificationProjectCompleted   NotificationKind = "project_completed"
	NotificationReviewNew          NotificationKind = "review_new"
	NotificationSystem             NotificationKind = "system"
)

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationProposalNew, NotificationProposalAccepted, NotificationProposalRejected,
		NotificationMessageNew, NotificationMilestoneSubmitted, NotificationMilestoneApproved,
		NotificationPaymentCompleted, NotificationProjectCompleted, NotificationReviewNew,
		NotificationSystem:
		return true
	}
	return false
}
