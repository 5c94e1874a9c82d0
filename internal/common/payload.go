package common

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// SummaryLimit caps the conversation preview length in runes.
const SummaryLimit = 120

// Payload is the typed content of a structured message.
type Payload interface {
	Accepts(kind MessageKind) bool
	Summary() string
}

// Body is what a sender provides: text for text/system kinds,
// a payload for everything else.
type Body struct {
	Text    string  `json:"text,omitempty"`
	Payload Payload `json:"-"`
}

type JobCard struct {
	JobID      string          `json:"job_id" validate:"required"`
	ProposalID string          `json:"proposal_id,omitempty"`
	Title      string          `json:"title" validate:"required"`
	Budget     decimal.Decimal `json:"budget"`
	Currency   string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status     string          `json:"status,omitempty" validate:"omitempty,oneof=submitted accepted rejected"`
}

func (JobCard) Accepts(kind MessageKind) bool { return kind == MessageJobCard }

func (c JobCard) Summary() string {
	if c.Status != "" {
		return fmt.Sprintf("Proposal %s: %s", c.Status, c.Title)
	}
	return "Job: " + c.Title
}

type AIOrderCard struct {
	OrderID      string          `json:"order_id" validate:"required"`
	SpecialistID string          `json:"specialist_id,omitempty"`
	ServiceName  string          `json:"service_name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status       string          `json:"status,omitempty"`
}

func (AIOrderCard) Accepts(kind MessageKind) bool { return kind == MessageAIOrderCard }

func (c AIOrderCard) Summary() string {
	return "AI order: " + c.ServiceName
}

type MilestoneUpdate struct {
	MilestoneID string          `json:"milestone_id" validate:"required"`
	ProjectID   string          `json:"project_id,omitempty"`
	Title       string          `json:"title" validate:"required"`
	Status      string          `json:"status" validate:"required,oneof=pending submitted approved rejected"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty" validate:"omitempty,len=3"`
}

func (MilestoneUpdate) Accepts(kind MessageKind) bool { return kind == MessageMilestoneUpdate }

func (u MilestoneUpdate) Summary() string {
	return fmt.Sprintf("Milestone %s: %s", u.Status, u.Title)
}

type PaymentUpdate struct {
	PaymentID string          `json:"payment_id" validate:"required"`
	ProjectID string          `json:"project_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency" validate:"required,len=3"`
	Status    string          `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

func (PaymentUpdate) Accepts(kind MessageKind) bool { return kind == MessagePaymentUpdate }

func (u PaymentUpdate) Summary() string {
	return fmt.Sprintf("Payment %s: %s %s", u.Status, u.Amount.StringFixed(2), u.Currency)
}

// Attachment describes an uploaded file. It backs both file and image messages.
type Attachment struct {
	FileID      string `json:"file_id" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"gte=0"`
	URL         string `json:"url,omitempty"`

	// ConversationID is read back from storage and never part of a payload.
	ConversationID string `json:"-"`
}

func (Attachment) Accepts(kind MessageKind) bool {
	return kind == MessageFile || kind == MessageImage
}

func (a Attachment) Summary() string {
	if DetectAttachmentKind(a.ContentType) == MessageImage {
		return "Image: " + a.Filename
	}
	return "File: " + a.Filename
}

// EncodePayload serializes a payload for storage.
func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// DecodePayload turns stored JSON back into the payload type for kind.
func DecodePayload(kind MessageKind, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var (
		p   Payload
		err error
	)
	switch kind {
	case MessageJobCard:
		var v JobCard
		err = json.Unmarshal(raw, &v)
		p = v
	case MessageAIOrderCard:
		var v AIOrderCard
		err = json.Unmarshal(raw, &v)
		p = v
	case MessageMilestoneUpdate:
		var v MilestoneUpdate
		err = json.Unmarshal(raw, &v)
		p = v
	case MessagePaymentUpdate:
		var v PaymentUpdate
		err = json.Unmarshal(raw, &v)
		p = v
	case MessageFile, MessageImage:
		var v Attachment
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("kind %q carries no payload", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return p, nil
}

// Summarize builds the conversation preview for a message.
func Summarize(kind MessageKind, body Body) string {
	if kind.IsStructured() && body.Payload != nil {
		return Truncate(body.Payload.Summary(), SummaryLimit)
	}
	return Truncate(strings.Join(strings.Fields(body.Text), " "), SummaryLimit)
}

// Truncate cuts s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
