// Package media streams stored chat attachments back to clients.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

// Conversations loads a conversation on behalf of one of its participants.
type Conversations interface {
	Get(ctx context.Context, conversationID, viewerID string) (*dbmysql.Conversation, error)
}

type HTTPServer struct {
	storage       common.AttachmentStore
	conversations Conversations
}

func NewHTTPServer(storage common.AttachmentStore, conversations Conversations) *HTTPServer {
	return &HTTPServer{storage: storage, conversations: conversations}
}

func (s *HTTPServer) Register(r *mux.Router) {
	r.HandleFunc("/attachments/{fileId}", s.serveFile).Methods(http.MethodGet)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		common.WriteJSON(w, http.StatusNotFound, common.ErrorResponse{Error: "attachments are not enabled"})
		return
	}
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteJSON(w, http.StatusUnauthorized, common.ErrorResponse{Error: "authorization required"})
		return
	}
	fileID := mux.Vars(r)["fileId"]

	reader, att, err := s.storage.Open(r.Context(), fileID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	defer reader.Close()

	// only participants of the conversation the file was posted to may read it
	if att.ConversationID == "" {
		common.WriteError(w, r, common.NotFound("media.serveFile", "attachment %s not found", fileID))
		return
	}
	if _, err := s.conversations.Get(r.Context(), att.ConversationID, userID); err != nil {
		common.WriteError(w, r, err)
		return
	}

	contentType := att.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = getContentType(att.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", att.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.Filename))

	if _, err := io.Copy(w, reader); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("file_id", fileID).Msg("error streaming attachment")
	}
}

func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
