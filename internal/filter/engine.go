package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/solatis/recordfilter/internal/schema"
	"github.com/solatis/recordfilter/internal/types"
)

// Engine binds a schema registry and a logger to the pure translation and
// evaluation functions. It holds no per-query state and is safe for
// concurrent use.
type Engine struct {
	registry schema.Registry
	logger   *slog.Logger
}

// NewEngine creates an engine; a nil logger uses slog.Default().
func NewEngine(registry schema.Registry, logger *slog.Logger) *Engine {
	if registry == nil {
		registry = schema.Static{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{registry: registry, logger: logger}
}

// Query is a translated filter and sort list ready to dispatch.
type Query struct {
	Filter      RemoteFilter
	Sorts       []RemoteSort
	Diagnostics []Diagnostic
	Coverage    CoverageReport
}

// queryBody is the remote request body; filter is omitted when nil.
type queryBody struct {
	Filter RemoteFilter `json:"filter,omitempty"`
	Sorts  []RemoteSort `json:"sorts"`
}

// Body renders the remote query request body.
func (q *Query) Body() ([]byte, error) {
	sorts := q.Sorts
	if sorts == nil {
		sorts = []RemoteSort{}
	}
	return json.Marshal(queryBody{Filter: q.Filter, Sorts: sorts})
}

// Query loads the schema, translates node and sorts, and logs what was dropped.
func (e *Engine) Query(ctx context.Context, node types.FilterNode, sorts []types.SortRule) (*Query, error) {
	s, err := e.registry.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	result := Translate(node, s)
	q := &Query{
		Filter:      result.Filter,
		Sorts:       TranslateSorts(sorts),
		Diagnostics: result.Diagnostics,
		Coverage:    Coverage(node, result),
	}

	for _, d := range result.Diagnostics {
		e.logger.DebugContext(ctx, "filter node degraded",
			"kind", string(d.Kind),
			"node_id", d.NodeID,
			"field", d.Field,
			"detail", d.Detail)
	}
	if !q.Coverage.Complete() {
		e.logger.WarnContext(ctx, "filter partially translated",
			"leaves", q.Coverage.Leaves,
			"dropped", q.Coverage.Dropped,
			"primitives", q.Coverage.Primitives)
	}

	return q, nil
}

// Match evaluates node locally and returns the matching records in order.
func (e *Engine) Match(ctx context.Context, node types.FilterNode, records []types.Record) []types.Record {
	matched := Filter(node, records)
	e.logger.DebugContext(ctx, "filter evaluated locally",
		"records", len(records),
		"matched", len(matched))
	return matched
}
