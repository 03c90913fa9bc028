package api

import (
	"encoding/json"
	"time"

	"github.com/solatis/recordfilter/internal/filter"
	"github.com/solatis/recordfilter/internal/types"
)

// Filter trees and sort lists travel as raw JSON and are decoded by
// types.DecodeNode / types.DecodeSorts, which enforce depth and size limits.

// TranslateRequest asks for the remote query body of a filter.
// With TemplateID set, the saved template's filter and sorts are used and
// Filter and Sorts must be empty.
type TranslateRequest struct {
	Filter     json.RawMessage `json:"filter,omitempty"`
	Sorts      json.RawMessage `json:"sorts,omitempty"`
	TemplateID string          `json:"template_id,omitempty"`
	Strict     bool            `json:"strict,omitempty"`
}

// TranslateResponse carries the remote request body and what was lost.
type TranslateResponse struct {
	Body        json.RawMessage       `json:"body"`
	Diagnostics []filter.Diagnostic   `json:"diagnostics"`
	Coverage    filter.CoverageReport `json:"coverage"`
}

// EvaluateRequest evaluates a filter against already-loaded records.
type EvaluateRequest struct {
	Filter  json.RawMessage `json:"filter,omitempty"`
	Records []types.Record  `json:"records"`
}

// EvaluateResponse has one entry per request record, in order.
type EvaluateResponse struct {
	Matches []bool `json:"matches"`
}

// CollectFieldsRequest asks which fields a filter references.
type CollectFieldsRequest struct {
	Filter json.RawMessage `json:"filter,omitempty"`
}

// CollectFieldsResponse lists referenced fields, sorted.
type CollectFieldsResponse struct {
	Fields []string `json:"fields"`
}

// TemplateMessage is the wire form of a saved template.
type TemplateMessage struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Filter    json.RawMessage `json:"filter,omitempty"`
	Sorts     json.RawMessage `json:"sorts,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SaveTemplateRequest creates a template, or replaces the one with Template.ID.
type SaveTemplateRequest struct {
	Template TemplateMessage `json:"template"`
}

// GetTemplateRequest looks a template up by ID.
type GetTemplateRequest struct {
	ID string `json:"id"`
}

// TemplateResponse returns one template.
type TemplateResponse struct {
	Template TemplateMessage `json:"template"`
}

// ListTemplatesRequest lists every template.
type ListTemplatesRequest struct{}

// ListTemplatesResponse returns templates ordered by name.
type ListTemplatesResponse struct {
	Templates []TemplateMessage `json:"templates"`
}

// DeleteTemplateRequest removes a template by ID.
type DeleteTemplateRequest struct {
	ID string `json:"id"`
}

// DeleteTemplateResponse is empty on success.
type DeleteTemplateResponse struct{}
