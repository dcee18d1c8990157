package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/inkwell/internal/domain"
)

// PostRepository implements domain.PostRepository using SQLite.
type PostRepository struct {
	db *sql.DB
}

// Only the author's username is joined in; the password hash never leaves users.
const selectPost = `SELECT p.id, p.title, p.summary, p.content, p.cover, p.author_id,
	u.username, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.author_id`

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	id := domain.ID(uuid.NewString())
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, summary, content, cover, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, post.Title, post.Summary, post.Content, post.Cover, post.AuthorID, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err, "posts.title") {
			return domain.ErrDuplicateTitle
		}
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: author does not exist", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	// rowid follows insertion order and breaks created_at ties.
	rows, err := r.db.QueryContext(ctx,
		selectPost+` ORDER BY p.created_at DESC, p.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, summary = ?, content = ?, cover = ?, updated_at = ?
		 WHERE id = ? AND author_id = ?`,
		post.Title, post.Summary, post.Content, post.Cover, now, post.ID, post.AuthorID,
	)
	if err != nil {
		if isUniqueConstraintError(err, "posts.title") {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	post.UpdatedAt = now
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	p := &domain.Post{Author: &domain.Author{}}
	if err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.Cover, &p.AuthorID,
		&p.Author.Username, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Author.ID = p.AuthorID
	return p, nil
}
