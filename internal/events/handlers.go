package events

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

// Handler lets other marketplace services publish business events.
type Handler struct {
	bridge *Bridge
}

func NewHandler(bridge *Bridge) *Handler {
	return &Handler{bridge: bridge}
}

// Register mounts the event routes. They belong on the service-only router.
func (h *Handler) Register(internal *mux.Router) {
	internal.HandleFunc("/events/proposals/{status}", h.Proposal).Methods(http.MethodPost)
	internal.HandleFunc("/events/ai-orders", h.AIOrderPlaced).Methods(http.MethodPost)
	internal.HandleFunc("/events/ai-orders/replies", h.SpecialistReply).Methods(http.MethodPost)
	internal.HandleFunc("/events/milestones/{status}", h.Milestone).Methods(http.MethodPost)
	internal.HandleFunc("/events/payments", h.PaymentCompleted).Methods(http.MethodPost)
	internal.HandleFunc("/events/projects/completed", h.ProjectCompleted).Methods(http.MethodPost)
	internal.HandleFunc("/events/reviews", h.ReviewPosted).Methods(http.MethodPost)
}

type conversationResponse struct {
	ConversationID    string `json:"conversation_id"`
	NotificationError string `json:"notification_error,omitempty"`
}

// writeConversation reports a chat side effect. Once the message is posted a
// failed notification is reported but not turned into a retryable error.
func writeConversation(w http.ResponseWriter, r *http.Request, convID string, err error) {
	if err != nil && convID == "" {
		common.WriteError(w, r, err)
		return
	}
	resp := conversationResponse{ConversationID: convID}
	status := http.StatusCreated
	if err != nil {
		resp.NotificationError = err.Error()
		status = http.StatusAccepted
	}
	common.WriteJSON(w, status, resp)
}

func (h *Handler) Proposal(w http.ResponseWriter, r *http.Request) {
	var publish func(context.Context, ProposalEvent) (string, error)
	switch mux.Vars(r)["status"] {
	case "submitted":
		publish = h.bridge.ProposalSubmitted
	case "accepted":
		publish = h.bridge.ProposalAccepted
	case "rejected":
		publish = h.bridge.ProposalRejected
	default:
		common.WriteError(w, r, common.NotFound("events.proposal", "unknown proposal event %q", mux.Vars(r)["status"]))
		return
	}

	var e ProposalEvent
	if err := common.DecodeJSON(r, &e); err != nil {
		common.WriteError(w, r, err)
		return
	}
	convID, err := publish(r.Context(), e)
	writeConversation(w, r, convID, err)
}

func (h *Handler) AIOrderPlaced(w http.ResponseWriter, r *http.Request) {
	var e AIOrderEvent
	if err := common.DecodeJSON(r, &e); err != nil {
		common.WriteError(w, r, err)
		return
	}
	convID, err := h.bridge.AIOrderPlaced(r.Context(), e)
	writeConversation(w, r, convID, err)
}

type replyRequest struct {
	ConversationID string `json:"conversation_id"`
	SpecialistID   string `json:"specialist_id"`
	Text           string `json:"text"`
}

func (h *Handler) SpecialistReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	msg, err := h.bridge.SpecialistReply(r.Context(), req.ConversationID, req.SpecialistID, req.Text)
	if msg == nil {
		common.WriteError(w, r, err)
		return
	}
	writeConversation(w, r, msg.ConversationID, err)
}

type milestoneRequest struct {
	RecipientID    string `json:"recipient_id"`
	ProjectID      string `json:"project_id"`
	MilestoneTitle string `json:"milestone_title"`
}

func (h *Handler) Milestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	var err error
	switch mux.Vars(r)["status"] {
	case "submitted":
		err = h.bridge.MilestoneSubmitted(r.Context(), req.RecipientID, req.ProjectID, req.MilestoneTitle)
	case "approved":
		err = h.bridge.MilestoneApproved(r.Context(), req.RecipientID, req.ProjectID, req.MilestoneTitle)
	default:
		err = common.NotFound("events.milestone", "unknown milestone event %q", mux.Vars(r)["status"])
	}
	writeAccepted(w, r, err)
}

type paymentRequest struct {
	RecipientID string          `json:"recipient_id"`
	PaymentID   string          `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

func (h *Handler) PaymentCompleted(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	writeAccepted(w, r, h.bridge.PaymentCompleted(r.Context(), req.RecipientID, req.PaymentID, req.Amount, req.Currency))
}

type projectRequest struct {
	ClientID     string `json:"client_id"`
	FreelancerID string `json:"freelancer_id"`
	ProjectID    string `json:"project_id"`
	ProjectTitle string `json:"project_title"`
}

func (h *Handler) ProjectCompleted(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	writeAccepted(w, r, h.bridge.ProjectCompleted(r.Context(), req.ClientID, req.FreelancerID, req.ProjectID, req.ProjectTitle))
}

type reviewRequest struct {
	RevieweeID   string `json:"reviewee_id"`
	ReviewID     string `json:"review_id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
}

func (h *Handler) ReviewPosted(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	writeAccepted(w, r, h.bridge.ReviewPosted(r.Context(), req.RevieweeID, req.ReviewID, req.ReviewerName, req.Rating))
}

func writeAccepted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
