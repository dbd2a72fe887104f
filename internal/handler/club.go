package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/service"
)

// ClubHandler covers clubs, their membership, and their photo feeds.
//
// Most read endpoints use OptionalAuth: public clubs render for everyone,
// and the service decides visibility for private ones based on whoever
// the cookie says is asking.
type ClubHandler struct {
	clubs  *service.ClubService
	logger *slog.Logger
}

func NewClubHandler(clubs *service.ClubService, logger *slog.Logger) *ClubHandler {
	return &ClubHandler{clubs: clubs, logger: logger}
}

type clubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
	IsPrivate   bool   `json:"isPrivate"`
}

// HandleCreate creates a club with the caller as owner.
//
// HTTP: POST /api/clubs
// Auth: Required
func (h *ClubHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	club, err := h.clubs.Create(r.Context(), userID, req.Name, req.Description, req.CoverImage, req.IsPrivate)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("club created",
		slog.String("clubID", club.ID),
		slog.String("ownerID", userID),
	)
	writeJSON(w, http.StatusCreated, club)
}

// HandleList returns a page of public clubs.
//
// HTTP: GET /api/clubs
func (h *ClubHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.List(r.Context(), parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// HandleListMine returns the clubs the caller belongs to, with their role.
//
// HTTP: GET /api/clubs/mine
// Auth: Required
func (h *ClubHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	clubs, err := h.clubs.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// HandleListByUser returns the clubs any user belongs to, with roles.
//
// HTTP: GET /api/clubs/user/{userId}
func (h *ClubHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// HandleGet returns one club plus the viewer's membership state.
//
// HTTP: GET /api/clubs/{id}
// Auth: Optional
func (h *ClubHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	view, err := h.clubs.Get(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleUpdate edits a club's settings (owner or admin).
//
// HTTP: PUT /api/clubs/{id}
// Auth: Required
func (h *ClubHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	club, err := h.clubs.Update(r.Context(), r.PathValue("id"), userID, req.Name, req.Description, req.CoverImage, req.IsPrivate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// HandleDelete deletes a club and everything attached to it (owner only).
//
// HTTP: DELETE /api/clubs/{id}
// Auth: Required
func (h *ClubHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	if err := h.clubs.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("club deleted",
		slog.String("clubID", r.PathValue("id")),
		slog.String("userID", userID),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleJoin adds the caller to a club as a regular member.
//
// HTTP: POST /api/clubs/{id}/join
// Auth: Required
func (h *ClubHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	if err := h.clubs.Join(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "joined"})
}

// HandleLeave removes the caller's membership.
//
// HTTP: POST /api/clubs/{id}/leave
// Auth: Required
func (h *ClubHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	if err := h.clubs.Leave(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "left"})
}

// HandleMembers lists a club's members, owner first.
//
// HTTP: GET /api/clubs/{id}/members
// Auth: Optional (private clubs require membership)
func (h *ClubHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	members, err := h.clubs.Members(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

type promoteRequest struct {
	UserID string `json:"userId"`
}

// HandlePromote raises a member to admin (owner only).
//
// HTTP: POST /api/clubs/{id}/promote
// Auth: Required
func (h *ClubHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.clubs.Promote(r.Context(), r.PathValue("id"), userID, req.UserID); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("member promoted",
		slog.String("clubID", r.PathValue("id")),
		slog.String("targetID", req.UserID),
		slog.String("byUserID", userID),
	)
	writeJSON(w, http.StatusOK, map[string]string{"message": "promoted"})
}

type postPhotoRequest struct {
	PhotoID string `json:"photoId"`
}

// HandlePostPhoto shares one of the caller's photos into the club feed.
//
// HTTP: POST /api/clubs/{id}/photos
// Auth: Required (members only; the service enforces both membership and
// photo ownership)
func (h *ClubHandler) HandlePostPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req postPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.clubs.PostPhoto(r.Context(), r.PathValue("id"), userID, req.PhotoID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "posted"})
}

// HandlePhotos returns a page of the club's photo feed.
//
// HTTP: GET /api/clubs/{id}/photos
// Auth: Optional (private clubs require membership)
func (h *ClubHandler) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	photos, err := h.clubs.Photos(r.Context(), r.PathValue("id"), viewerID, parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}
