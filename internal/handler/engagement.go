package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/service"
)

// EngagementHandler covers likes and comments on photos.
//
// All three endpoints use OptionalAuth: anonymous visitors can engage
// too. For them the service keys likes by IP address, and comments get
// the "Anonymous" byline.
type EngagementHandler struct {
	engagement *service.EngagementService
	logger     *slog.Logger
}

func NewEngagementHandler(engagement *service.EngagementService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{engagement: engagement, logger: logger}
}

// HandleToggleLike flips the caller's like on a photo.
//
// HTTP: POST /api/photos/{id}/like
//
// WHY A TOGGLE INSTEAD OF LIKE + UNLIKE ENDPOINTS?
// The client only ever shows one heart button. A single toggle endpoint
// means the client never has to know the current state before acting,
// which also removes a whole class of double-tap races.
func (h *EngagementHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	state, err := h.engagement.ToggleLike(r.Context(), r.PathValue("id"), userID, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleLikeStatus reports the caller's like state and the photo's count
// without changing anything.
//
// HTTP: GET /api/photos/{id}/like
func (h *EngagementHandler) HandleLikeStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	state, err := h.engagement.LikeStatus(r.Context(), r.PathValue("id"), userID, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type commentRequest struct {
	Text string `json:"text"`
}

// HandleAddComment posts a comment on a photo.
//
// HTTP: POST /api/photos/{id}/comments
func (h *EngagementHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	comment, err := h.engagement.AddComment(r.Context(), r.PathValue("id"), userID, clientIP(r), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("comment added",
		slog.String("photoID", r.PathValue("id")),
		slog.String("commentID", comment.ID),
	)
	writeJSON(w, http.StatusCreated, comment)
}

// HandleComments lists a photo's comments, oldest first.
//
// HTTP: GET /api/photos/{id}/comments
func (h *EngagementHandler) HandleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.engagement.Comments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleCommentCount returns just the comment count, for feed badges that
// don't need the comment bodies.
//
// HTTP: GET /api/photos/{id}/comments/count
func (h *EngagementHandler) HandleCommentCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.engagement.CommentCount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
