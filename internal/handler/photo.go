package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/media"
	"github.com/lenb209/PhotoApp/internal/service"
)

// PhotoHandler serves the photo feed and upload/edit/delete operations.
type PhotoHandler struct {
	photos *service.PhotoService
	logger *slog.Logger
}

func NewPhotoHandler(photos *service.PhotoService, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, logger: logger}
}

// HandleUpload accepts a multipart photo upload.
//
// HTTP: POST /api/photos
// Auth: Required
//
// MULTIPART FORM FIELDS:
//   - photo          → the image file (required)
//   - title          → photo title (required)
//   - description    → optional
//   - tags           → optional, comma-separated
//   - featuredStream → "true" to show in the public featured feed
//
// MaxBytesReader caps the whole request body before any parsing happens.
// Without it a client could stream gigabytes into ParseMultipartForm.
// The service re-checks the decoded image itself; this cap is just the
// transport-level backstop.
func (h *PhotoHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "validation_error",
			Message: "upload too large or malformed",
		})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "a photo file is required",
			Field:   "photo",
		})
		return
	}
	defer file.Close()

	photo, err := h.photos.Upload(r.Context(), service.UploadInput{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		Tags:           r.FormValue("tags"),
		FeaturedStream: r.FormValue("featuredStream") == "true",
		OriginalName:   header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		File:           file,
		UserID:         userID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("photo uploaded",
		slog.String("photoID", photo.ID),
		slog.String("userID", userID),
		slog.Int64("size", photo.FileSize),
	)
	writeJSON(w, http.StatusCreated, photo)
}

// HandleList returns a page of all photos, newest first.
//
// HTTP: GET /api/photos
func (h *PhotoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photos.List(r.Context(), parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// HandleListFeatured returns a page of the public featured stream, the
// subset of photos their uploaders opted into the global feed.
//
// HTTP: GET /api/photos/featured
func (h *PhotoHandler) HandleListFeatured(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photos.ListFeatured(r.Context(), parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// HandleGet returns one photo with its engagement counts for the viewer.
//
// HTTP: GET /api/photos/{id}
// Auth: Optional (logged-in viewers get their own likedByMe state)
func (h *PhotoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	detail, err := h.photos.Get(r.Context(), r.PathValue("id"), viewerID, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updatePhotoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HandleUpdate edits a photo's title and description.
//
// HTTP: PUT /api/photos/{id}
// Auth: Required (uploader only; the service enforces ownership)
func (h *PhotoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req updatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	photo, err := h.photos.Update(r.Context(), r.PathValue("id"), userID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// HandleDelete removes a photo, its files, and all engagement on it.
//
// HTTP: DELETE /api/photos/{id}
// Auth: Required (uploader only)
func (h *PhotoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	if err := h.photos.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("photo deleted",
		slog.String("photoID", r.PathValue("id")),
		slog.String("userID", userID),
	)
	w.WriteHeader(http.StatusNoContent)
}
