package domain

import (
	"context"
	"time"
)

// RecentPostsLimit caps how many posts a listing returns.
const RecentPostsLimit = 20

// Author is the public view of a post's owner.
type Author struct {
	ID       ID
	Username string
}

type Post struct {
	ID       ID
	Title    string
	Summary  string
	Content  string
	Cover    string // Relative path of the uploaded cover, e.g. "uploads/<name>.png"
	AuthorID ID
	// Author is resolved by reads (GetByID, ListRecent); writes ignore it.
	Author    *Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the given user is the post's author.
func (p *Post) OwnedBy(userID ID) bool {
	return p.AuthorID == userID
}

type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id ID) (*Post, error)
	// ListRecent returns at most limit posts, newest first.
	ListRecent(ctx context.Context, limit int) ([]Post, error)
	// Update saves title, summary, content and cover. Only a row matching
	// both post.ID and post.AuthorID is written; otherwise ErrNotFound.
	Update(ctx context.Context, post *Post) error
}
