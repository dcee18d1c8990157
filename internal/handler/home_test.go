package handler_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/inkwell/internal/service"
)

func TestHandleHome(t *testing.T) {
	app := newTestApp(t)
	srv := app.server(t)
	c := newClient(t)
	signup(t, c, srv.URL, "alice")
	resp := sendMultipart(t, c, http.MethodPost, srv.URL+"/post",
		map[string]string{"title": "Hello <Home>"}, formFile{"file", "a.png", "x"})
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML, got %s", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Hello &lt;Home&gt;") {
		t.Fatalf("expected escaped post title in page:\n%s", body)
	}
}

func TestHandleHomeNotFound(t *testing.T) {
	srv := newTestApp(t).server(t)

	resp, err := http.Get(srv.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// openFeed starts a /feed stream that is torn down with the test.
func openFeed(t *testing.T, baseURL string) (*http.Response, *bufio.Reader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/feed", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /feed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp, bufio.NewReader(resp.Body)
}

// nextPatch reads SSE events until an element patch arrives and returns it.
func nextPatch(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		var event strings.Builder
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				t.Fatalf("read feed: %v (partial event %q)", err, event.String())
			}
			if strings.TrimRight(line, "\r\n") == "" {
				break
			}
			event.WriteString(line)
		}
		if strings.Contains(event.String(), "datastar-patch-elements") {
			return event.String()
		}
	}
}

func TestHandleFeed(t *testing.T) {
	srv := newTestApp(t).server(t)

	resp, events := openFeed(t, srv.URL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %s", ct)
	}

	patch := nextPatch(t, events)
	for _, want := range []string{"#posts", "inner", "No posts yet."} {
		if !strings.Contains(patch, want) {
			t.Fatalf("expected %q in patch:\n%s", want, patch)
		}
	}
}

func TestHandleFeed_PatchesAfterPostChanges(t *testing.T) {
	app := newTestApp(t)
	srv := app.server(t)
	ctx := context.Background()

	user, err := app.auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "pw1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, events := openFeed(t, srv.URL)
	if patch := nextPatch(t, events); !strings.Contains(patch, "No posts yet.") {
		t.Fatalf("unexpected initial patch:\n%s", patch)
	}

	post, err := app.posts.Create(ctx, user.ID, service.CreatePostInput{
		Title: "Fresh off the press",
		File:  &service.Attachment{Filename: "a.png", Content: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if patch := nextPatch(t, events); !strings.Contains(patch, "Fresh off the press") {
		t.Fatalf("expected new post in patch:\n%s", patch)
	}

	if _, err := app.posts.Edit(ctx, user.ID, service.EditPostInput{ID: post.ID, Title: "Second edition"}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if patch := nextPatch(t, events); !strings.Contains(patch, "Second edition") {
		t.Fatalf("expected edited post in patch:\n%s", patch)
	}
}

func TestHandleFeed_EndsWhenPostsClose(t *testing.T) {
	app := newTestApp(t)
	srv := app.server(t)

	_, events := openFeed(t, srv.URL)
	nextPatch(t, events)

	app.posts.Close()

	if _, err := io.ReadAll(events); err != nil {
		t.Fatalf("expected stream to end cleanly, got %v", err)
	}
}
