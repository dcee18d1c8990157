package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/msomdec/inkwell/internal/domain"
	"github.com/msomdec/inkwell/internal/service"
)

// maxUploadSize bounds a multipart post body (10MB).
const maxUploadSize = 10 << 20

// coverField is the only multipart field that may carry a file.
const coverField = "file"

// PostHandler handles post creation, listing, retrieval and editing.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// HandleCreate creates a post from a multipart form with a cover file.
// POST /post
// Form: file, title, summary, content
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	file, cleanup, err := parsePostForm(w, r)
	defer cleanup()
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("parse post form", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	post, err := h.posts.Create(r.Context(), claims.UserID, service.CreatePostInput{
		Title:   r.FormValue("title"),
		Summary: r.FormValue("summary"),
		Content: r.FormValue("content"),
		File:    file,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateTitle):
			writeError(w, http.StatusBadRequest, "A post with that title already exists.")
		default:
			slog.Error("create post", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleList returns the most recent posts, newest first.
// GET /post
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListRecent(r.Context())
	if err != nil {
		slog.Error("list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, toPostDTOs(posts))
}

// HandleGet returns a single post.
// GET /post/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), domain.ID(r.PathValue("id")))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return
		}
		slog.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleEdit updates a post owned by the caller. The cover is replaced only
// when a file is attached.
// PUT /post
// Form: id, title, summary, content, optional file
func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	file, cleanup, err := parsePostForm(w, r)
	defer cleanup()
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("parse post form", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	post, err := h.posts.Edit(r.Context(), claims.UserID, service.EditPostInput{
		ID:      domain.ID(r.FormValue("id")),
		Title:   r.FormValue("title"),
		Summary: r.FormValue("summary"),
		Content: r.FormValue("content"),
		File:    file,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateTitle):
			writeError(w, http.StatusBadRequest, "A post with that title already exists.")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "You are not the author of this post.")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found.")
		default:
			slog.Error("edit post", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// parsePostForm parses a multipart post body. It returns the single file
// under coverField, or nil when none was sent. Files under any other field,
// or more than one cover, are rejected. The returned cleanup is never nil and
// must be called once the request is done.
func parsePostForm(w http.ResponseWriter, r *http.Request) (*service.Attachment, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, func() {}, fmt.Errorf("%w: file too large", domain.ErrInvalidInput)
		}
		return nil, func() {}, fmt.Errorf("%w: multipart form required", domain.ErrInvalidInput)
	}

	form := r.MultipartForm
	cleanup := func() { form.RemoveAll() }

	for field := range form.File {
		if field != coverField {
			return nil, cleanup, fmt.Errorf("%w: unexpected file field %q", domain.ErrInvalidInput, field)
		}
	}

	headers := form.File[coverField]
	switch len(headers) {
	case 0:
		return nil, cleanup, nil
	case 1:
	default:
		return nil, cleanup, fmt.Errorf("%w: only one file may be uploaded", domain.ErrInvalidInput)
	}

	f, err := headers[0].Open()
	if err != nil {
		return nil, cleanup, fmt.Errorf("open upload: %w", err)
	}

	return &service.Attachment{Filename: headers[0].Filename, Content: f}, func() {
		f.Close()
		form.RemoveAll()
	}, nil
}
