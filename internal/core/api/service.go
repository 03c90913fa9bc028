// Package api provides the gRPC FilterService implementation.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/recordfilter/internal/core/config"
	"github.com/solatis/recordfilter/internal/core/templates"
	"github.com/solatis/recordfilter/internal/filter"
	"github.com/solatis/recordfilter/internal/types"
)

// TemplateStore is the persistence the service needs; *templates.Store
// implements it.
type TemplateStore interface {
	Save(ctx context.Context, t templates.Template) (templates.Template, error)
	Get(ctx context.Context, id types.TemplateID) (templates.Template, error)
	List(ctx context.Context) ([]templates.Template, error)
	Delete(ctx context.Context, id types.TemplateID) error
}

// FilterService implements FilterServiceServer.
// Thin orchestration layer delegating to the filter engine and template store.
type FilterService struct {
	engine *filter.Engine
	store  TemplateStore // nil: template methods fail with FAILED_PRECONDITION
	cfg    config.ServerConfig
	logger *slog.Logger
}

// NewFilterService creates service instance with dependencies.
// store may be nil when no database is configured.
func NewFilterService(engine *filter.Engine, store TemplateStore, cfg config.ServerConfig, logger *slog.Logger) (*FilterService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if cfg.MaxRecords <= 0 {
		return nil, fmt.Errorf("max_records must be positive, got %d", cfg.MaxRecords)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterService{engine: engine, store: store, cfg: cfg, logger: logger}, nil
}

// Translate returns the remote query body for a filter and sort list, or for
// a saved template.
func (s *FilterService) Translate(ctx context.Context, req *TranslateRequest) (*TranslateResponse, error) {
	node, sorts, err := s.translateInput(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}

	q, err := s.engine.Query(ctx, node, sorts)
	if err != nil {
		return nil, toStatus(err)
	}
	if req.Strict {
		if err := (filter.Result{Filter: q.Filter, Diagnostics: q.Diagnostics}).Strict(); err != nil {
			return nil, toStatus(err)
		}
	}

	body, err := q.Body()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode query body: %v", err)
	}

	diagnostics := q.Diagnostics
	if diagnostics == nil {
		diagnostics = []filter.Diagnostic{}
	}
	return &TranslateResponse{
		Body:        body,
		Diagnostics: diagnostics,
		Coverage:    q.Coverage,
	}, nil
}

// translateInput resolves the filter and sorts of a Translate request.
func (s *FilterService) translateInput(ctx context.Context, req *TranslateRequest) (types.FilterNode, []types.SortRule, error) {
	if req.TemplateID == "" {
		node, err := types.DecodeNode(req.Filter)
		if err != nil {
			return nil, nil, err
		}
		sorts, err := types.DecodeSorts(req.Sorts)
		if err != nil {
			return nil, nil, err
		}
		return node, sorts, nil
	}

	if len(req.Filter) > 0 || len(req.Sorts) > 0 {
		return nil, nil, status.Error(codes.InvalidArgument, "template_id cannot be combined with filter or sorts")
	}
	if s.store == nil {
		return nil, nil, errStoreDisabled
	}
	t, err := s.store.Get(ctx, types.TemplateID(req.TemplateID))
	if err != nil {
		return nil, nil, err
	}
	return t.Filter, t.Sorts, nil
}

// Evaluate reports, per record, whether it satisfies the filter.
// Accepts at most cfg.MaxRecords records per call.
func (s *FilterService) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	if len(req.Records) > s.cfg.MaxRecords {
		return nil, status.Errorf(codes.InvalidArgument, "record count %d exceeds maximum of %d", len(req.Records), s.cfg.MaxRecords)
	}
	node, err := types.DecodeNode(req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}

	matches := make([]bool, len(req.Records))
	for i, r := range req.Records {
		if err := ctx.Err(); err != nil {
			return nil, toStatus(err)
		}
		matches[i] = filter.Evaluate(node, r)
	}
	return &EvaluateResponse{Matches: matches}, nil
}

// CollectFields returns the sorted set of fields the filter references.
func (s *FilterService) CollectFields(ctx context.Context, req *CollectFieldsRequest) (*CollectFieldsResponse, error) {
	node, err := types.DecodeNode(req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CollectFieldsResponse{Fields: filter.SortedFields(node)}, nil
}

// SaveTemplate creates or replaces a template.
func (s *FilterService) SaveTemplate(ctx context.Context, req *SaveTemplateRequest) (*TemplateResponse, error) {
	if s.store == nil {
		return nil, errStoreDisabled
	}
	node, err := types.DecodeNode(req.Template.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	sorts, err := types.DecodeSorts(req.Template.Sorts)
	if err != nil {
		return nil, toStatus(err)
	}

	saved, err := s.store.Save(ctx, templates.Template{
		ID:     types.TemplateID(req.Template.ID),
		Name:   req.Template.Name,
		Filter: node,
		Sorts:  sorts,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	msg, err := templateMessage(saved)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode template: %v", err)
	}
	s.logger.InfoContext(ctx, "template saved", "template_id", msg.ID, "name", msg.Name)
	return &TemplateResponse{Template: msg}, nil
}

// GetTemplate returns one template by ID.
func (s *FilterService) GetTemplate(ctx context.Context, req *GetTemplateRequest) (*TemplateResponse, error) {
	if s.store == nil {
		return nil, errStoreDisabled
	}
	t, err := s.store.Get(ctx, types.TemplateID(req.ID))
	if err != nil {
		return nil, toStatus(err)
	}
	msg, err := templateMessage(t)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode template: %v", err)
	}
	return &TemplateResponse{Template: msg}, nil
}

// ListTemplates returns every template ordered by name.
func (s *FilterService) ListTemplates(ctx context.Context, req *ListTemplatesRequest) (*ListTemplatesResponse, error) {
	if s.store == nil {
		return nil, errStoreDisabled
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]TemplateMessage, 0, len(all))
	for _, t := range all {
		msg, err := templateMessage(t)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to encode template %s: %v", t.ID, err)
		}
		out = append(out, msg)
	}
	return &ListTemplatesResponse{Templates: out}, nil
}

// DeleteTemplate removes a template by ID.
func (s *FilterService) DeleteTemplate(ctx context.Context, req *DeleteTemplateRequest) (*DeleteTemplateResponse, error) {
	if s.store == nil {
		return nil, errStoreDisabled
	}
	if err := s.store.Delete(ctx, types.TemplateID(req.ID)); err != nil {
		return nil, toStatus(err)
	}
	s.logger.InfoContext(ctx, "template deleted", "template_id", req.ID)
	return &DeleteTemplateResponse{}, nil
}

// templateMessage converts a stored template to its wire form.
func templateMessage(t templates.Template) (TemplateMessage, error) {
	filterJSON, err := types.EncodeNode(t.Filter)
	if err != nil {
		return TemplateMessage{}, err
	}
	sorts := t.Sorts
	if sorts == nil {
		sorts = []types.SortRule{}
	}
	sortsJSON, err := json.Marshal(sorts)
	if err != nil {
		return TemplateMessage{}, err
	}
	return TemplateMessage{
		ID:        string(t.ID),
		Name:      t.Name,
		Filter:    filterJSON,
		Sorts:     sortsJSON,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}, nil
}
