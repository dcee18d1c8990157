package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/msomdec/inkwell/internal/domain"
)

// requireFields returns an ErrInvalidInput naming every field whose value is
// empty. fields alternates name, value.
func requireFields(fields ...string) error {
	var missing []string
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			missing = append(missing, fields[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, ", "))
}

type RegisterInput struct {
	Username string
	Password string
}

func (in RegisterInput) Validate() error {
	if err := requireFields("username", in.Username, "password", in.Password); err != nil {
		return err
	}
	if len(in.Password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, MaxPasswordLength)
	}
	return nil
}

type LoginInput struct {
	Username string
	Password string
}

func (in LoginInput) Validate() error {
	return requireFields("username", in.Username, "password", in.Password)
}

// Attachment is a single uploaded file.
type Attachment struct {
	Filename string
	Content  io.Reader
}

type CreatePostInput struct {
	Title   string
	Summary string
	Content string
	File    *Attachment // required
}

func (in CreatePostInput) Validate() error {
	file := ""
	if in.File != nil {
		file = in.File.Filename
	}
	return requireFields("title", in.Title, "file", file)
}

type EditPostInput struct {
	ID      domain.ID
	Title   string
	Summary string
	Content string
	File    *Attachment // optional; nil keeps the current cover
}

func (in EditPostInput) Validate() error {
	if err := requireFields("id", string(in.ID), "title", in.Title); err != nil {
		return err
	}
	if in.File != nil && in.File.Filename == "" {
		return fmt.Errorf("%w: file name required", domain.ErrInvalidInput)
	}
	return nil
}
