package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/roamshare/internal/apperr"
	"github.com/starford/roamshare/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes and spaces (e.g. My%20Note.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Discover handles GET /api/discover.
//
//	@Summary		Compute the export set reachable from a seed note
//	@Tags			export
//	@Produce		json
//	@Param			seed		query		string	true	"Seed note name"
//	@Param			depth		query		int		true	"Number of waves"
//	@Param			exclude		query		[]string	false	"Note names never followed"
//	@Param			drop_empty	query		bool	false	"Skip zero-byte notes"
//	@Success		200			{object}	Discovery
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/discover [get]
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := DiscoverRequest{
		Seed:    q.Get("seed"),
		Exclude: q["exclude"],
	}
	raw := q.Get("depth")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "depth is required")
		return
	}
	depth, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "depth must be an integer")
		return
	}
	req.Depth = depth
	if raw := q.Get("drop_empty"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "drop_empty must be a boolean")
			return
		}
		req.DropEmpty = v
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.svc.Discover(r.Context(), noteservice.DiscoverRequest{
		Seed:      req.Seed,
		Depth:     req.Depth,
		Exclude:   req.Exclude,
		DropEmpty: req.DropEmpty,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrSeedMissing) {
			writeError(w, http.StatusNotFound, "seed note not found")
		} else {
			slog.Error("discover failed", slog.String("seed", req.Seed), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Rewrite handles POST /api/rewrite.
//
//	@Summary		Rewrite note markup for web publication
//	@Tags			export
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RewriteRequest	true	"Content and export set"
//	@Success		200		{object}	RewriteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/rewrite [post]
func (h *Handler) Rewrite(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, RewriteResponse{
		Content: h.svc.Rewrite(req.Content, req.Exported, req.Prefix),
	})
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List every note in the collection
//	@Tags			notes
//	@Produce		json
//	@Success		200	{array}		models.NoteMetadata
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context())
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /api/notes/*.
// With a prefix query parameter the note is rewritten against the notes
// listed in the repeated exported parameter.
//
//	@Summary		Get a single note by name
//	@Tags			notes
//	@Produce		json
//	@Param			path		path		string		true	"Note name or file name"
//	@Param			prefix		query		string		false	"Link prefix; enables rewriting"
//	@Param			exported	query		[]string	false	"Exported note names"
//	@Success		200			{object}	NoteResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	data, err := h.svc.ReadNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	content := string(data)
	q := r.URL.Query()
	if q.Has("prefix") {
		prefix := q.Get("prefix")
		content = h.svc.Rewrite(content, q["exported"], &prefix)
	}
	writeJSON(w, http.StatusOK, NoteResponse{Path: path, Content: content})
}
