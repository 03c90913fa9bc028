package api

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/solatis/recordfilter/internal/core/config"
	"github.com/solatis/recordfilter/internal/core/db"
	"github.com/solatis/recordfilter/internal/core/templates"
	"github.com/solatis/recordfilter/internal/filter"
	"github.com/solatis/recordfilter/internal/schema"
	"github.com/solatis/recordfilter/internal/types"
)

var testSchema = schema.Static{
	"Status": types.PropertyStatus,
	"Tags":   types.PropertyMultiSelect,
	"Score":  types.PropertyNumber,
}

// newTestClient serves a FilterService over bufconn and returns a client.
// withStore attaches a migrated sqlite template store.
func newTestClient(t *testing.T, withStore bool) *Client {
	t.Helper()

	var store TemplateStore
	if withStore {
		conn, err := db.Open("sqlite://" + filepath.Join(t.TempDir(), "api.db"))
		if err != nil {
			t.Fatalf("db.Open() error = %v, want nil", err)
		}
		t.Cleanup(func() { conn.Close() })
		if _, err := db.MigrateUp(context.Background(), conn); err != nil {
			t.Fatalf("db.MigrateUp() error = %v, want nil", err)
		}
		s, err := templates.NewStore(conn, nil)
		if err != nil {
			t.Fatalf("templates.NewStore() error = %v, want nil", err)
		}
		store = s
	}

	cfg := config.DefaultConfig().Server
	cfg.MaxRecords = 3
	service, err := NewFilterService(filter.NewEngine(testSchema, nil), store, cfg, nil)
	if err != nil {
		t.Fatalf("NewFilterService() error = %v, want nil", err)
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterFilterServiceServer(srv, service)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient() error = %v, want nil", err)
	}
	t.Cleanup(func() { cc.Close() })

	return NewClient(cc)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if got := status.Code(err); got != code {
		t.Errorf("status code = %v (%v), want %v", got, err, code)
	}
}

func TestTranslate(t *testing.T) {
	client := newTestClient(t, false)
	ctx := testContext(t)

	resp, err := client.Translate(ctx, &TranslateRequest{
		Filter: json.RawMessage(`{"logic":"AND","conditions":[
			{"id":"c1","field":"Status","operator":"does_not_contain","value":"Done|Blocked"},
			{"id":"c2","field":"Tags","operator":"contains"}
		]}`),
		Sorts: json.RawMessage(`[{"property":"Score","direction":"descending"}]`),
	})
	if err != nil {
		t.Fatalf("Translate() error = %v, want nil", err)
	}

	want := `{"filter":{"or":[{"and":[{"property":"Status","status":{"does_not_equal":"Done"}},{"property":"Status","status":{"does_not_equal":"Blocked"}}]},{"property":"Status","status":{"is_empty":true}}]},"sorts":[{"property":"Score","direction":"descending"}]}`
	if string(resp.Body) != want {
		t.Errorf("Translate().Body = %s, want %s", resp.Body, want)
	}
	if len(resp.Diagnostics) != 1 || resp.Diagnostics[0].Kind != filter.DiagMissingValue || resp.Diagnostics[0].NodeID != "c2" {
		t.Errorf("Translate().Diagnostics = %+v, want one missing_value for c2", resp.Diagnostics)
	}
	if resp.Coverage.Leaves != 2 || resp.Coverage.Dropped != 1 {
		t.Errorf("Translate().Coverage = %+v, want 2 leaves, 1 dropped", resp.Coverage)
	}
}

func TestTranslate_Errors(t *testing.T) {
	client := newTestClient(t, false)
	ctx := testContext(t)

	tests := []struct {
		name string
		req  *TranslateRequest
		code codes.Code
	}{
		{
			"strict with dropped node",
			&TranslateRequest{Filter: json.RawMessage(`{"field":"Status","operator":"equals"}`), Strict: true},
			codes.FailedPrecondition,
		},
		{
			"ambiguous node",
			&TranslateRequest{Filter: json.RawMessage(`{"logic":"AND","conditions":[],"field":"x"}`)},
			codes.InvalidArgument,
		},
		{
			"bad sort direction",
			&TranslateRequest{Sorts: json.RawMessage(`[{"property":"Score","direction":"up"}]`)},
			codes.InvalidArgument,
		},
		{
			"template without store",
			&TranslateRequest{TemplateID: string(types.NewTemplateID())},
			codes.FailedPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Translate(ctx, tt.req)
			wantCode(t, err, tt.code)
		})
	}
}

func TestTranslate_EmptyFilter(t *testing.T) {
	client := newTestClient(t, false)

	resp, err := client.Translate(testContext(t), &TranslateRequest{})
	if err != nil {
		t.Fatalf("Translate() error = %v, want nil", err)
	}
	if string(resp.Body) != `{"sorts":[]}` {
		t.Errorf("Translate().Body = %s, want {\"sorts\":[]}", resp.Body)
	}
}

func TestEvaluate(t *testing.T) {
	client := newTestClient(t, false)
	ctx := testContext(t)

	resp, err := client.Evaluate(ctx, &EvaluateRequest{
		Filter: json.RawMessage(`{"logic":"OR","conditions":[
			{"field":"Status","operator":"is_in","value":["done","blocked"]},
			{"field":"Score","operator":"greater_than","value":10}
		]}`),
		Records: []types.Record{
			{"Status": "Done", "Score": 1},
			{"Status": "Open", "Score": 11},
			{"Status": "Open", "Score": 3},
		},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
	want := []bool{true, true, false}
	if len(resp.Matches) != len(want) {
		t.Fatalf("Evaluate().Matches = %v, want %v", resp.Matches, want)
	}
	for i := range want {
		if resp.Matches[i] != want[i] {
			t.Errorf("Evaluate().Matches[%d] = %v, want %v", i, resp.Matches[i], want[i])
		}
	}

	_, err = client.Evaluate(ctx, &EvaluateRequest{Records: make([]types.Record, 4)})
	wantCode(t, err, codes.InvalidArgument)
}

func TestCollectFields(t *testing.T) {
	client := newTestClient(t, false)

	resp, err := client.CollectFields(testContext(t), &CollectFieldsRequest{
		Filter: json.RawMessage(`{"logic":"AND","conditions":[
			{"field":"Tags","operator":"is_empty"},
			{"logic":"OR","conditions":[{"field":"Status","operator":"equals","value":"x"},{"operator":"equals"}]}
		]}`),
	})
	if err != nil {
		t.Fatalf("CollectFields() error = %v, want nil", err)
	}
	if len(resp.Fields) != 2 || resp.Fields[0] != "Status" || resp.Fields[1] != "Tags" {
		t.Errorf("CollectFields() = %v, want [Status Tags]", resp.Fields)
	}
}

func TestTemplates(t *testing.T) {
	client := newTestClient(t, true)
	ctx := testContext(t)

	saved, err := client.SaveTemplate(ctx, &SaveTemplateRequest{Template: TemplateMessage{
		Name:   "Open items",
		Filter: json.RawMessage(`{"field":"Status","operator":"not_equals","value":"Done"}`),
		Sorts:  json.RawMessage(`[{"property":"Score"}]`),
	}})
	if err != nil {
		t.Fatalf("SaveTemplate() error = %v, want nil", err)
	}
	id := saved.Template.ID
	if id == "" {
		t.Fatal("SaveTemplate() returned no ID")
	}

	got, err := client.GetTemplate(ctx, &GetTemplateRequest{ID: id})
	if err != nil {
		t.Fatalf("GetTemplate() error = %v, want nil", err)
	}
	if got.Template.Name != "Open items" {
		t.Errorf("GetTemplate().Name = %q, want %q", got.Template.Name, "Open items")
	}

	tr, err := client.Translate(ctx, &TranslateRequest{TemplateID: id})
	if err != nil {
		t.Fatalf("Translate(template) error = %v, want nil", err)
	}
	want := `{"filter":{"property":"Status","status":{"does_not_equal":"Done"}},"sorts":[{"property":"Score","direction":"ascending"}]}`
	if string(tr.Body) != want {
		t.Errorf("Translate(template).Body = %s, want %s", tr.Body, want)
	}

	_, err = client.Translate(ctx, &TranslateRequest{TemplateID: id, Filter: json.RawMessage(`{}`)})
	wantCode(t, err, codes.InvalidArgument)

	list, err := client.ListTemplates(ctx, &ListTemplatesRequest{})
	if err != nil {
		t.Fatalf("ListTemplates() error = %v, want nil", err)
	}
	if len(list.Templates) != 1 {
		t.Errorf("len(ListTemplates()) = %d, want 1", len(list.Templates))
	}

	if _, err := client.DeleteTemplate(ctx, &DeleteTemplateRequest{ID: id}); err != nil {
		t.Fatalf("DeleteTemplate() error = %v, want nil", err)
	}
	_, err = client.GetTemplate(ctx, &GetTemplateRequest{ID: id})
	wantCode(t, err, codes.NotFound)
	_, err = client.DeleteTemplate(ctx, &DeleteTemplateRequest{ID: id})
	wantCode(t, err, codes.NotFound)

	_, err = client.SaveTemplate(ctx, &SaveTemplateRequest{Template: TemplateMessage{Name: ""}})
	wantCode(t, err, codes.InvalidArgument)
}

func TestTemplates_StoreDisabled(t *testing.T) {
	client := newTestClient(t, false)
	ctx := testContext(t)

	_, err := client.ListTemplates(ctx, &ListTemplatesRequest{})
	wantCode(t, err, codes.FailedPrecondition)
	_, err = client.SaveTemplate(ctx, &SaveTemplateRequest{Template: TemplateMessage{Name: "x"}})
	wantCode(t, err, codes.FailedPrecondition)
}

func TestNewFilterService_Validation(t *testing.T) {
	cfg := config.DefaultConfig().Server
	if _, err := NewFilterService(nil, nil, cfg, nil); err == nil {
		t.Error("NewFilterService(nil engine) error = nil, want error")
	}
	cfg.MaxRecords = 0
	if _, err := NewFilterService(filter.NewEngine(nil, nil), nil, cfg, nil); err == nil {
		t.Error("NewFilterService(max_records 0) error = nil, want error")
	}
}
