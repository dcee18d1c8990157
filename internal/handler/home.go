package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/inkwell/internal/domain"
	"github.com/msomdec/inkwell/internal/service"
	"github.com/msomdec/inkwell/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// HomeHandler serves the HTML landing page and its live post feed.
type HomeHandler struct {
	posts *service.PostService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(posts *service.PostService) *HomeHandler {
	return &HomeHandler{posts: posts}
}

// HandleHome renders the home page with the most recent posts.
// GET /
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListRecent(r.Context())
	if err != nil {
		slog.Error("list posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.HomePage(posts).Render(r.Context(), w); err != nil {
		slog.Error("render home page", "error", err)
	}
}

// HandleFeed streams the post list over SSE. It patches the list once on
// connect and again after every post change, until the client goes away or
// the server shuts down.
// GET /feed
func (h *HomeHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the first read so no change is missed in between.
	updates, unsubscribe := h.posts.Subscribe()
	defer unsubscribe()

	posts, err := h.posts.ListRecent(r.Context())
	if err != nil {
		slog.Error("list posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := patchPostList(sse, posts); err != nil {
		slog.Debug("patch post list", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			posts, err := h.posts.ListRecent(r.Context())
			if err != nil {
				slog.Error("list posts", "error", err)
				return
			}
			if err := patchPostList(sse, posts); err != nil {
				slog.Debug("patch post list", "error", err)
				return
			}
		}
	}
}

func patchPostList(sse *datastar.ServerSentEventGenerator, posts []domain.Post) error {
	return sse.PatchElementTempl(
		view.PostList(posts),
		datastar.WithSelectorID(view.PostListID),
		datastar.WithModeInner(),
	)
}
