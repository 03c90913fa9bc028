// Package templates persists named filter templates: a filter tree plus a
// sort list saved under a UUIDv7 identifier.
package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/recordfilter/internal/core/db"
	"github.com/solatis/recordfilter/internal/types"
)

// Template is a saved filter and sort list.
type Template struct {
	ID        types.TemplateID
	Name      string
	Filter    types.FilterNode // nil = no filter
	Sorts     []types.SortRule
	CreatedAt time.Time
	UpdatedAt time.Time
}

// templateRow is the filter_templates row. Timestamps are RFC 3339 text so
// one row type serves both drivers.
type templateRow struct {
	ID         string `db:"template_id"`
	Name       string `db:"name"`
	FilterJSON string `db:"filter_json"`
	SortsJSON  string `db:"sorts_json"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

// Store reads and writes templates through the named queries in
// internal/core/db/queries/templates.sql.
type Store struct {
	queries *db.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a store over a migrated database.
func NewStore(conn *sqlx.DB, logger *slog.Logger) (*Store, error) {
	if conn == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	queries, err := db.LoadQueries(conn)
	if err != nil {
		return nil, err
	}
	return &Store{
		queries: queries,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Save inserts t, or updates it when a template with t.ID exists.
// An empty ID is assigned a new UUIDv7. CreatedAt is kept on update.
// The stored template is returned.
func (s *Store) Save(ctx context.Context, t Template) (Template, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return Template{}, fmt.Errorf("%w: name is required", types.ErrInvalidTemplate)
	}
	if len(t.Name) > types.MaxTemplateNameLength {
		return Template{}, fmt.Errorf("%w: name exceeds %d characters", types.ErrInvalidTemplate, types.MaxTemplateNameLength)
	}
	if t.ID == "" {
		t.ID = types.NewTemplateID()
	} else if _, err := types.ParseTemplateID(string(t.ID)); err != nil {
		return Template{}, fmt.Errorf("%w: id %q: %v", types.ErrInvalidTemplate, t.ID, err)
	}
	if err := types.Validate(t.Filter); err != nil {
		return Template{}, fmt.Errorf("%w: %w", types.ErrInvalidTemplate, err)
	}
	// stored nodes always carry IDs so diagnostics can point at them
	t.Filter = types.AssignNodeIDs(t.Filter)

	filterJSON, err := types.EncodeNode(t.Filter)
	if err != nil {
		return Template{}, fmt.Errorf("failed to encode filter: %w", err)
	}
	sorts := t.Sorts
	if sorts == nil {
		sorts = []types.SortRule{}
	}
	sortsJSON, err := json.Marshal(sorts)
	if err != nil {
		return Template{}, fmt.Errorf("failed to encode sorts: %w", err)
	}

	now := s.now().Format(time.RFC3339Nano)
	if _, err := s.queries.Exec(ctx, "upsert-template",
		string(t.ID), t.Name, string(filterJSON), string(sortsJSON), now, now,
	); err != nil {
		return Template{}, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.DebugContext(ctx, "template saved", "template_id", string(t.ID), "name", t.Name)
	return s.Get(ctx, t.ID)
}

// Get returns the template with id, or types.ErrTemplateNotFound.
func (s *Store) Get(ctx context.Context, id types.TemplateID) (Template, error) {
	if _, err := types.ParseTemplateID(string(id)); err != nil {
		return Template{}, fmt.Errorf("%w: %s", types.ErrTemplateNotFound, id)
	}

	var row templateRow
	if err := s.queries.Get(ctx, "get-template", &row, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, fmt.Errorf("%w: %s", types.ErrTemplateNotFound, id)
		}
		return Template{}, fmt.Errorf("failed to load template: %w", err)
	}
	return row.decode()
}

// List returns all templates ordered by name, then ID.
// Rows that no longer decode are skipped and logged.
func (s *Store) List(ctx context.Context) ([]Template, error) {
	var rows []templateRow
	if err := s.queries.Select(ctx, "list-templates", &rows); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	out := make([]Template, 0, len(rows))
	for _, r := range rows {
		t, err := r.decode()
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable template", "template_id", r.ID, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Delete removes the template with id, or returns types.ErrTemplateNotFound.
func (s *Store) Delete(ctx context.Context, id types.TemplateID) error {
	if _, err := types.ParseTemplateID(string(id)); err != nil {
		return fmt.Errorf("%w: %s", types.ErrTemplateNotFound, id)
	}

	res, err := s.queries.Exec(ctx, "delete-template", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrTemplateNotFound, id)
	}

	s.logger.DebugContext(ctx, "template deleted", "template_id", string(id))
	return nil
}

// decode converts a row into a Template.
func (r templateRow) decode() (Template, error) {
	filter, err := types.DecodeNode([]byte(r.FilterJSON))
	if err != nil {
		return Template{}, fmt.Errorf("template %s filter: %w", r.ID, err)
	}
	sorts, err := types.DecodeSorts([]byte(r.SortsJSON))
	if err != nil {
		return Template{}, fmt.Errorf("template %s sorts: %w", r.ID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return Template{}, fmt.Errorf("template %s created_at: %w", r.ID, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	if err != nil {
		return Template{}, fmt.Errorf("template %s updated_at: %w", r.ID, err)
	}

	return Template{
		ID:        types.TemplateID(r.ID),
		Name:      r.Name,
		Filter:    filter,
		Sorts:     sorts,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
