package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/inkwell/internal/domain"
)

// PostService handles post creation, retrieval, and author-only edits.
type PostService struct {
	posts   domain.PostRepository
	users   domain.UserRepository
	uploads domain.UploadStore
	feed    *FeedHub
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository, users domain.UserRepository, uploads domain.UploadStore) *PostService {
	return &PostService{posts: posts, users: users, uploads: uploads, feed: NewFeedHub()}
}

// Create stores the cover upload and creates a post owned by authorID.
func (s *PostService) Create(ctx context.Context, authorID domain.ID, in CreatePostInput) (*domain.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: author does not exist", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	cover, err := s.uploads.Save(ctx, in.File.Filename, in.File.Content)
	if err != nil {
		return nil, fmt.Errorf("save cover: %w", err)
	}

	post := &domain.Post{
		Title:    in.Title,
		Summary:  in.Summary,
		Content:  in.Content,
		Cover:    cover,
		AuthorID: author.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.discardUpload(ctx, cover)
		return nil, fmt.Errorf("create post: %w", err)
	}

	post.Author = &domain.Author{ID: author.ID, Username: author.Username}
	s.feed.Publish()
	return post, nil
}

// GetByID returns a post with its author resolved.
func (s *PostService) GetByID(ctx context.Context, id domain.ID) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// ListRecent returns the newest posts, capped at domain.RecentPostsLimit.
func (s *PostService) ListRecent(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListRecent(ctx, domain.RecentPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Edit replaces a post's title, summary and content, and its cover when a
// file is attached. Only the author may edit; anyone else gets
// domain.ErrUnauthorized and the post is left unchanged.
func (s *PostService) Edit(ctx context.Context, userID domain.ID, in EditPostInput) (*domain.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(userID) {
		return nil, domain.ErrUnauthorized
	}

	var newCover string
	if in.File != nil {
		newCover, err = s.uploads.Save(ctx, in.File.Filename, in.File.Content)
		if err != nil {
			return nil, fmt.Errorf("save cover: %w", err)
		}
		post.Cover = newCover
	}

	post.Title = in.Title
	post.Summary = in.Summary
	post.Content = in.Content

	if err := s.posts.Update(ctx, post); err != nil {
		if newCover != "" {
			s.discardUpload(ctx, newCover)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.feed.Publish()
	return post, nil
}

// Subscribe returns a channel signalled after every successful create or
// edit, and a func that ends the subscription.
func (s *PostService) Subscribe() (<-chan struct{}, func()) {
	return s.feed.Subscribe()
}

// Close ends all feed subscriptions.
func (s *PostService) Close() {
	s.feed.Close()
}

// discardUpload is best-effort cleanup of a cover whose post was never saved.
func (s *PostService) discardUpload(ctx context.Context, path string) {
	if err := s.uploads.Remove(ctx, path); err != nil {
		slog.Warn("remove orphaned upload", "path", path, "error", err)
	}
}
