package notif

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

type NotificationHandler struct {
	service *Service
}

func NewNotificationHandler(service *Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Register mounts the recipient routes on r and the service-to-service
// routes on internal.
func (h *NotificationHandler) Register(r, internal *mux.Router) {
	r.HandleFunc("/notifications", h.List).Methods(http.MethodGet)
	r.HandleFunc("/notifications/unread-count", h.UnreadCount).Methods(http.MethodGet)
	r.HandleFunc("/notifications/read-all", h.MarkAllRead).Methods(http.MethodPut)
	r.HandleFunc("/notifications/{notificationID}/read", h.MarkRead).Methods(http.MethodPut)

	internal.HandleFunc("/notifications", h.Create).Methods(http.MethodPost)
	internal.HandleFunc("/notifications/bulk", h.CreateBulk).Methods(http.MethodPost)
}

type listResponse struct {
	Notifications []*dbmysql.Notification `json:"notifications"`
	Limit         int                     `json:"limit"`
	Offset        int                     `json:"offset"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteJSON(w, http.StatusUnauthorized, common.ErrorResponse{Error: "authorization required"})
		return
	}

	limit, offset, err := common.PageParams(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	limit, offset = clampPage(limit, offset)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.service.List(r.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	if items == nil {
		items = []*dbmysql.Notification{}
	}
	common.WriteJSON(w, http.StatusOK, listResponse{Notifications: items, Limit: limit, Offset: offset})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteJSON(w, http.StatusUnauthorized, common.ErrorResponse{Error: "authorization required"})
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteJSON(w, http.StatusUnauthorized, common.ErrorResponse{Error: "authorization required"})
		return
	}

	if err := h.service.MarkReadFor(r.Context(), mux.Vars(r)["notificationID"], userID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteJSON(w, http.StatusUnauthorized, common.ErrorResponse{Error: "authorization required"})
		return
	}

	n, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	n, err := h.service.Notify(r.Context(), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, n)
}

type bulkRequest struct {
	RecipientIDs []string                `json:"recipient_ids" validate:"required,min=1,max=1000"`
	Kind         common.NotificationKind `json:"kind"`
	Title        string                  `json:"title"`
	Body         string                  `json:"body"`
}

type bulkFailure struct {
	RecipientID string `json:"recipient_id"`
	Error       string `json:"error"`
}

type bulkResponse struct {
	Created []*dbmysql.Notification `json:"created"`
	Failed  []bulkFailure           `json:"failed"`
}

func (h *NotificationHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, r, common.InvalidContext("notifications.bulk", "%s", err.Error()))
		return
	}

	res := h.service.NotifyMany(r.Context(), req.RecipientIDs, req.Kind, req.Title, req.Body)

	out := bulkResponse{Created: res.Created, Failed: []bulkFailure{}}
	if out.Created == nil {
		out.Created = []*dbmysql.Notification{}
	}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, bulkFailure{RecipientID: f.RecipientID, Error: f.Err.Error()})
	}

	status := http.StatusCreated
	switch {
	case len(res.Failed) > 0 && len(res.Created) == 0:
		status = common.HTTPStatus(res.Failed[0].Err)
	case len(res.Failed) > 0:
		status = http.StatusMultiStatus
	}
	common.WriteJSON(w, status, out)
}
