package handler

import (
	"net/http"
	"os"

	"github.com/msomdec/inkwell/internal/service"
	"github.com/msomdec/inkwell/internal/upload"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Registration and
// login are rate limited per client by limiter; uploaded covers are served
// from uploadDir.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, posts *service.PostService, limiter *service.TokenBucket, uploadDir string, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	postHandler := NewPostHandler(posts)
	homeHandler := NewHomeHandler(posts)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Pages.
	mux.HandleFunc("GET /{$}", homeHandler.HandleHome)
	mux.HandleFunc("GET /feed", homeHandler.HandleFeed)

	// Accounts.
	mux.Handle("POST /register", RateLimit(limiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /login", RateLimit(limiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.HandleFunc("POST /logout", authHandler.HandleLogout)
	mux.Handle("GET /profile", requireAuth(authHandler.HandleProfile))

	// Posts.
	mux.HandleFunc("GET /post", postHandler.HandleList)
	mux.HandleFunc("GET /post/{id}", postHandler.HandleGet)
	mux.Handle("POST /post", requireAuth(postHandler.HandleCreate))
	mux.Handle("PUT /post", requireAuth(postHandler.HandleEdit))

	// Uploaded covers.
	prefix := "/" + upload.PublicPrefix + "/"
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(noDirListing{http.Dir(uploadDir)})))
}

// noDirListing hides directory indexes from the upload file server.
type noDirListing struct {
	fs http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
