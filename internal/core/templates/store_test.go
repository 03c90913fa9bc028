package templates

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/solatis/recordfilter/internal/core/db"
	"github.com/solatis/recordfilter/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open("sqlite://" + filepath.Join(t.TempDir(), "templates.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v, want nil", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := db.MigrateUp(context.Background(), conn); err != nil {
		t.Fatalf("db.MigrateUp() error = %v, want nil", err)
	}

	store, err := NewStore(conn, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v, want nil", err)
	}
	return store
}

func sampleFilter() types.FilterNode {
	return types.Group{ID: "root", Logic: types.LogicAnd, Conditions: []types.FilterNode{
		types.Leaf{ID: "c1", Field: "Status", Operator: types.OpIsNotIn, Value: "Done|Blocked"},
		types.Leaf{ID: "c2", Field: "Owner", Operator: types.OpIsNotEmpty},
	}}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, Template{
		Name:   "  Open work  ",
		Filter: sampleFilter(),
		Sorts:  []types.SortRule{{Property: "Due", Direction: types.Descending}},
	})
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	if saved.ID == "" {
		t.Fatal("Save() assigned no ID")
	}
	if saved.Name != "Open work" {
		t.Errorf("Save().Name = %q, want %q", saved.Name, "Open work")
	}
	if saved.CreatedAt.IsZero() || !saved.CreatedAt.Equal(saved.UpdatedAt) {
		t.Errorf("Save() timestamps = %v / %v, want equal and set", saved.CreatedAt, saved.UpdatedAt)
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if !reflect.DeepEqual(got.Filter, sampleFilter()) {
		t.Errorf("Get().Filter = %#v, want %#v", got.Filter, sampleFilter())
	}
	if want := []types.SortRule{{Property: "Due", Direction: types.Descending}}; !reflect.DeepEqual(got.Sorts, want) {
		t.Errorf("Get().Sorts = %v, want %v", got.Sorts, want)
	}
}

func TestStore_SaveAssignsNodeIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, Template{
		Name: "no ids",
		Filter: types.Group{Logic: types.LogicAnd, Conditions: []types.FilterNode{
			types.Leaf{ID: "c1", Field: "Status", Operator: types.OpEquals, Value: "Done"},
			types.Leaf{Field: "Owner", Operator: types.OpEquals},
		}},
	})
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	root, ok := got.Filter.(types.Group)
	if !ok {
		t.Fatalf("Get().Filter = %T, want types.Group", got.Filter)
	}
	if root.ID == "" {
		t.Error("root group ID is empty")
	}
	if id := root.Conditions[0].(types.Leaf).ID; id != "c1" {
		t.Errorf("existing leaf ID = %q, want c1", id)
	}
	if id := root.Conditions[1].(types.Leaf).ID; id == "" {
		t.Error("leaf without ID was not assigned one")
	}
}

func TestStore_SaveUpdatesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return clock }

	first, err := store.Save(ctx, Template{Name: "v1", Filter: sampleFilter()})
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	clock = clock.Add(time.Hour)
	second, err := store.Save(ctx, Template{ID: first.ID, Name: "v2"})
	if err != nil {
		t.Fatalf("Save() update error = %v, want nil", err)
	}

	if second.Name != "v2" || second.Filter != nil {
		t.Errorf("Save() update = %+v, want name v2 and no filter", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", second.CreatedAt, first.CreatedAt)
	}
	if !second.UpdatedAt.Equal(clock) {
		t.Errorf("UpdatedAt = %v, want %v", second.UpdatedAt, clock)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v, want nil", err)
	}
	if len(all) != 1 {
		t.Errorf("len(List()) = %d, want 1", len(all))
	}
}

func TestStore_SaveValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		tmpl    Template
		wantErr error
	}{
		{"empty name", Template{Name: "   "}, types.ErrInvalidTemplate},
		{"long name", Template{Name: strings.Repeat("n", types.MaxTemplateNameLength+1)}, types.ErrInvalidTemplate},
		{"bad id", Template{ID: "nope", Name: "x"}, types.ErrInvalidTemplate},
		{"bad logic", Template{Name: "x", Filter: types.Group{Logic: "XOR"}}, types.ErrInvalidLogic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(ctx, tt.tmpl)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Save() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_ListOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if _, err := store.Save(ctx, Template{Name: name}); err != nil {
			t.Fatalf("Save(%s) error = %v, want nil", name, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v, want nil", err)
	}
	var names []string
	for _, tmpl := range all {
		names = append(names, tmpl.Name)
	}
	if want := []string{"alpha", "bravo", "charlie"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() names = %v, want %v", names, want)
	}
}

func TestStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	missing := types.NewTemplateID()

	if _, err := store.Get(ctx, missing); !errors.Is(err, types.ErrTemplateNotFound) {
		t.Errorf("Get() error = %v, want %v", err, types.ErrTemplateNotFound)
	}
	if _, err := store.Get(ctx, "not-a-uuid"); !errors.Is(err, types.ErrTemplateNotFound) {
		t.Errorf("Get(invalid) error = %v, want %v", err, types.ErrTemplateNotFound)
	}
	if err := store.Delete(ctx, missing); !errors.Is(err, types.ErrTemplateNotFound) {
		t.Errorf("Delete() error = %v, want %v", err, types.ErrTemplateNotFound)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, Template{Name: "temp"})
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}
	if _, err := store.Get(ctx, saved.ID); !errors.Is(err, types.ErrTemplateNotFound) {
		t.Errorf("Get() after Delete error = %v, want %v", err, types.ErrTemplateNotFound)
	}
}
