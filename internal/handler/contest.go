package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/media"
	"github.com/lenb209/PhotoApp/internal/service"
)

// ContestHandler covers photo contests and their entries.
type ContestHandler struct {
	contests *service.ContestService
	logger   *slog.Logger
}

func NewContestHandler(contests *service.ContestService, logger *slog.Logger) *ContestHandler {
	return &ContestHandler{contests: contests, logger: logger}
}

type contestRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	EntryFee    int       `json:"entryFee"`
	MaxEntries  int       `json:"maxEntries"`
	Prizes      []string  `json:"prizes"`
	ClubID      string    `json:"clubId"`
	IsPublic    bool      `json:"isPublic"`
}

// HandleCreate creates a contest.
//
// HTTP: POST /api/contests
// Auth: Required
//
// Dates arrive as RFC 3339 strings ("2026-09-01T00:00:00Z"); encoding/json
// parses them straight into time.Time, so a malformed date fails decoding
// rather than slipping through as a zero value.
func (h *ContestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	var req contestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	contest, err := h.contests.Create(r.Context(), userID, service.ContestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		EntryFee:    req.EntryFee,
		MaxEntries:  req.MaxEntries,
		Prizes:      req.Prizes,
		ClubID:      req.ClubID,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("contest created",
		slog.String("contestID", contest.ID),
		slog.String("creatorID", userID),
	)
	writeJSON(w, http.StatusCreated, contest)
}

// HandleList returns public contests, optionally filtered.
//
// HTTP: GET /api/contests?status=active&category=Nature
func (h *ContestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contests.List(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contests)
}

// HandleGet returns one contest.
//
// HTTP: GET /api/contests/{id}
// Auth: Optional (private club contests require membership)
func (h *ContestHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	contest, err := h.contests.Get(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

// HandleListByClub returns a club's contests.
//
// HTTP: GET /api/clubs/{id}/contests
// Auth: Optional (members also see the club's private contests)
func (h *ContestHandler) HandleListByClub(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	contests, err := h.contests.ListByClub(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contests)
}

// HandleEnter submits a photo to a contest.
//
// HTTP: POST /api/contests/{id}/entries (multipart form)
// Auth: Required
//
// MULTIPART FORM FIELDS:
//   - photo       → the entry image (required)
//   - title       → entry title (required)
//   - description → optional
func (h *ContestHandler) HandleEnter(w http.ResponseWriter, r *http.Request) {
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

	entry, err := h.contests.Enter(r.Context(), r.PathValue("id"), userID, service.EntryInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		ContentType: header.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("contest entry submitted",
		slog.String("contestID", r.PathValue("id")),
		slog.String("entryID", entry.ID),
		slog.String("userID", userID),
	)
	writeJSON(w, http.StatusCreated, entry)
}

// HandleEntries lists a contest's entries, newest first.
//
// HTTP: GET /api/contests/{id}/entries
// Auth: Optional (private club contests require membership)
func (h *ContestHandler) HandleEntries(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	entries, err := h.contests.Entries(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleMyEntries lists every entry the caller has submitted.
//
// HTTP: GET /api/contests/entries/mine
// Auth: Required
func (h *ContestHandler) HandleMyEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "login required"})
		return
	}

	entries, err := h.contests.MyEntries(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
