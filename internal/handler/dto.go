package handler

import (
	"time"

	"github.com/msomdec/inkwell/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash is never
// exposed.
type UserDTO struct {
	ID        domain.ID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// ProfileDTO is the JSON representation of verified session claims.
type ProfileDTO struct {
	Username string    `json:"username"`
	ID       domain.ID `json:"id"`
	IssuedAt int64     `json:"iat"`
	Expires  int64     `json:"exp"`
}

func toProfileDTO(c *domain.Claims) ProfileDTO {
	return ProfileDTO{
		Username: c.Username,
		ID:       c.UserID,
		IssuedAt: c.IssuedAt.Unix(),
		Expires:  c.ExpiresAt.Unix(),
	}
}

type AuthorDTO struct {
	ID       domain.ID `json:"id"`
	Username string    `json:"username"`
}

// PostDTO is the JSON representation of a post.
type PostDTO struct {
	ID        domain.ID  `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Content   string     `json:"content"`
	Cover     string     `json:"cover"`
	Author    *AuthorDTO `json:"author"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

func toPostDTO(p *domain.Post) PostDTO {
	dto := PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Cover:     p.Cover,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Author != nil {
		dto.Author = &AuthorDTO{ID: p.Author.ID, Username: p.Author.Username}
	}
	return dto
}

func toPostDTOs(posts []domain.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = toPostDTO(&posts[i])
	}
	return dtos
}
