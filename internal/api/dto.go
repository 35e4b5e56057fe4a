package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/roamshare/internal/noteservice"
)

// maxDepth bounds traversals requested over HTTP.
const maxDepth = 64

// Discovery is the discover response (aliased from the domain layer).
type Discovery = noteservice.Discovery

// DiscoverRequest holds the parsed query of GET /api/discover.
type DiscoverRequest struct {
	Seed      string   `json:"seed" example:"Index"`
	Depth     int      `json:"depth" example:"2"`
	Exclude   []string `json:"exclude,omitempty"`
	DropEmpty bool     `json:"drop_empty,omitempty"`
}

// Validate validates the discover request.
func (r DiscoverRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Seed, validation.Required),
		validation.Field(&r.Depth, validation.Min(0), validation.Max(maxDepth)),
	)
}

// RewriteRequest is the request body of POST /api/rewrite.
type RewriteRequest struct {
	Content  string   `json:"content" example:"[[B]] is ^^key^^" validate:"required"`
	Prefix   *string  `json:"prefix,omitempty" example:"notes"`
	Exported []string `json:"exported" example:"A,B"`
}

// Validate validates the rewrite request.
func (r RewriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

// RewriteResponse carries rewritten Markdown.
type RewriteResponse struct {
	Content string `json:"content" example:"[B](notes/b) is <mark>key</mark>" validate:"required"`
}

// NoteResponse is a single note, optionally rewritten.
type NoteResponse struct {
	Path    string `json:"path" example:"Index.md" validate:"required"`
	Content string `json:"content" validate:"required"`
}
