package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/service"
)

// UserHandler serves public profiles and the self-service profile editor.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleList returns a page of member profiles.
//
// HTTP: GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.users.List(r.Context(), parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleCount returns the total number of registered accounts.
//
// HTTP: GET /api/users/count
func (h *UserHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.users.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// HandleProfile returns one member's public profile and their photos.
//
// HTTP: GET /api/users/{username}
//
// Profiles are addressed by username, not ID, because profile URLs are
// what people share.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "username is required",
		})
		return
	}

	profile, err := h.users.GetProfile(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	DisplayName  string `json:"displayName"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

// HandleUpdateProfile edits the caller's own profile.
//
// HTTP: PUT /api/users/me
// Auth: Required
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, req.DisplayName, req.Bio, req.ProfileImage)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("profile updated", slog.String("userID", userID))
	writeJSON(w, http.StatusOK, user)
}
