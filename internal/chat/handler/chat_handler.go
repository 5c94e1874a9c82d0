// Package handler exposes conversations and messages over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/service"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

type ChatHandler struct {
	resolver *service.Resolver
	delivery *service.Delivery
	tracker  *service.ReadTracker
	maxBytes int64
}

func NewChatHandler(cfg *config.Config, resolver *service.Resolver, delivery *service.Delivery, tracker *service.ReadTracker) *ChatHandler {
	return &ChatHandler{
		resolver: resolver,
		delivery: delivery,
		tracker:  tracker,
		maxBytes: cfg.Chat.MaxAttachmentBytes,
	}
}

// Register mounts the chat routes. Fixed paths go before the {id} patterns.
func (h *ChatHandler) Register(r *mux.Router) {
	r.HandleFunc("/conversations", h.ListConversations).Methods(http.MethodGet)
	r.HandleFunc("/conversations/resolve", h.Resolve).Methods(http.MethodPost)
	r.HandleFunc("/conversations/unread-total", h.UnreadTotal).Methods(http.MethodGet)
	r.HandleFunc("/conversations/read-all", h.MarkAllRead).Methods(http.MethodPut)
	r.HandleFunc("/conversations/{id}", h.GetConversation).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/archive", h.Archive).Methods(http.MethodPut)
	r.HandleFunc("/conversations/{id}/read", h.MarkRead).Methods(http.MethodPut)
	r.HandleFunc("/conversations/{id}/messages", h.History).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/messages", h.Send).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}/attachments", h.SendAttachment).Methods(http.MethodPost)
	r.HandleFunc("/messages/{id}", h.Edit).Methods(http.MethodPatch)
	r.HandleFunc("/messages/{id}", h.Delete).Methods(http.MethodDelete)
}

func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteJSON(w, http.StatusUnauthorized, common.ErrorResponse{Error: "authorization required"})
	}
	return userID, ok
}

type resolveRequest struct {
	ParticipantID string                   `json:"participant_id"`
	Context       common.ContextDescriptor `json:"context"`
}

type resolveResponse struct {
	ConversationID string `json:"conversation_id"`
	Created        bool   `json:"created"`
}

func (h *ChatHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	id, created, err := h.resolver.Resolve(r.Context(), userID, req.ParticipantID, req.Context)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	common.WriteJSON(w, status, resolveResponse{ConversationID: id, Created: created})
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	limit, offset, err := common.PageParams(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	convs, err := h.resolver.List(r.Context(), userID, limit, offset)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	if convs == nil {
		convs = []*dbmysql.Conversation{}
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"conversations": convs})
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	conv, err := h.resolver.Get(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, conv)
}

func (h *ChatHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.resolver.Archive(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	Kind    common.MessageKind `json:"kind"`
	Text    string             `json:"text,omitempty"`
	Payload json.RawMessage    `json:"payload,omitempty"`
}

func (req sendRequest) body() (common.MessageKind, common.Body, error) {
	kind := req.Kind
	if kind == "" {
		kind = common.MessageText
	}
	body := common.Body{Text: req.Text}
	if kind.IsStructured() || len(req.Payload) > 0 {
		p, err := common.DecodePayload(kind, req.Payload)
		if err != nil {
			return "", common.Body{}, common.InvalidContext("chat.send", "%s", err.Error())
		}
		body.Payload = p
	}
	return kind, body, nil
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req sendRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	kind, body, err := req.body()
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	msg, err := h.delivery.Send(r.Context(), mux.Vars(r)["id"], userID, kind, body)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) SendAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteJSON(w, http.StatusRequestEntityTooLarge, common.ErrorResponse{Error: "attachment too large"})
			return
		}
		common.WriteError(w, r, common.InvalidContext("chat.attachment", "file field is required"))
		return
	}
	defer file.Close()

	msg, err := h.delivery.SendAttachment(r.Context(), mux.Vars(r)["id"], userID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	limit, offset, err := common.PageParams(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	msgs, err := h.delivery.History(r.Context(), mux.Vars(r)["id"], userID, limit, offset)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []*dbmysql.Message{}
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

type editRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	msg, err := h.delivery.Edit(r.Context(), mux.Vars(r)["id"], userID, req.Text)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, msg)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.delivery.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.tracker.MarkRead(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	n, err := h.tracker.MarkAllRead(r.Context(), userID)
	switch {
	case err != nil && n == 0:
		common.WriteError(w, r, err)
	case err != nil:
		common.WriteJSON(w, http.StatusMultiStatus, map[string]interface{}{"marked": n, "error": "some conversations could not be marked read"})
	default:
		common.WriteJSON(w, http.StatusOK, map[string]int{"marked": n})
	}
}

func (h *ChatHandler) UnreadTotal(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	total, err := h.tracker.UnreadTotal(r.Context(), userID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"unread_total": total})
}
