// Package schema provides the field schema registry: the collaborator that
// tells the translator which property type each field has.
//
// The translator never infers types. It receives a types.Schema map per call;
// a Registry is how the engine and the API obtain that map. Implementations
// may perform I/O (a remote schema endpoint, a file), hence the context.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/solatis/recordfilter/internal/types"
	"github.com/spf13/viper"
)

// Registry supplies the fieldName -> propertyType map.
type Registry interface {
	Schema(ctx context.Context) (types.Schema, error)
}

// Static is a fixed in-memory registry.
type Static types.Schema

// Schema returns a copy of the static map so callers cannot mutate the registry.
func (s Static) Schema(ctx context.Context) (types.Schema, error) {
	out := make(types.Schema, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

// fieldDef is one entry of a schema file.
// Fields are a list rather than a map because viper lower-cases map keys and
// field names are case-sensitive.
type fieldDef struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// LoadFile reads a schema file (YAML, JSON or TOML, by extension):
//
//	fields:
//	  - name: Status
//	    type: select
//	  - name: Tags
//	    type: multi_select
//
// Unknown type names are kept; the translator lowers them as text.
func LoadFile(path string) (Static, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var defs []fieldDef
	if err := v.UnmarshalKey("fields", &defs); err != nil {
		return nil, fmt.Errorf("failed to parse schema fields: %w", err)
	}

	s := make(Static, len(defs))
	for i, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("schema field %d has no name", i)
		}
		if _, dup := s[name]; dup {
			return nil, fmt.Errorf("schema field %q declared twice", name)
		}
		s[name] = types.PropertyType(strings.ToLower(strings.TrimSpace(d.Type)))
	}
	return s, nil
}

// Open returns the registry for a schema file path; an empty path yields an
// empty static registry, under which every field is treated as text.
func Open(path string) (Registry, error) {
	if path == "" {
		return Static{}, nil
	}
	return LoadFile(path)
}
