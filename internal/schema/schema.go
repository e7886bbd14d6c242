package schema

import (
	"fmt"

	"github.com/eugenenazirov/fautil/internal/layer"
)

// Kind is the declared type of a field.
type Kind int

const (
	KindBool Kind = iota + 1
	KindInt
	KindFloat
	KindString
	KindStringList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStringList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one named entry of a settings tree.
type Field struct {
	Name string
	Kind Kind
	// Default is used when no layer defines the field. A nil Default means the
	// kind's zero value, or a missing-field failure when Required is set.
	Default  any
	Required bool
	// Optional marks an object whose section only exists when some
	// non-default layer configures at least one key beneath it.
	Optional bool
	// Secret values are masked when settings are printed or served.
	Secret bool
	Fields []Field
}

// Require marks the field as required and drops its default.
func (f Field) Require() Field {
	f.Required = true
	f.Default = nil
	return f
}

// MarkSecret flags the field for masking.
func (f Field) MarkSecret() Field {
	f.Secret = true
	return f
}

// MarkOptional turns an object field into an optional section.
func (f Field) MarkOptional() Field {
	f.Optional = true
	return f
}

// IsLeaf reports whether the field holds a value rather than sub-fields.
func (f Field) IsLeaf() bool {
	return f.Kind != KindObject
}

// Child returns the sub-field with the given name.
func (f *Field) Child(name string) (*Field, bool) {
	return find(f.Fields, name)
}

// Bool declares a boolean field with a default.
func Bool(name string, def bool) Field {
	return Field{Name: name, Kind: KindBool, Default: def}
}

// Int declares an integer field with a default.
func Int(name string, def int) Field {
	return Field{Name: name, Kind: KindInt, Default: def}
}

// Float declares a floating point field with a default.
func Float(name string, def float64) Field {
	return Field{Name: name, Kind: KindFloat, Default: def}
}

// String declares a string field with a default.
func String(name, def string) Field {
	return Field{Name: name, Kind: KindString, Default: def}
}

// List declares a list-of-string field. Calling it without defaults yields an
// empty list default.
func List(name string, def ...string) Field {
	if def == nil {
		def = []string{}
	}
	return Field{Name: name, Kind: KindStringList, Default: def}
}

// Object declares a nested sub-schema.
func Object(name string, fields ...Field) Field {
	return Field{Name: name, Kind: KindObject, Fields: fields}
}

// Schema is the root of a settings tree.
type Schema struct {
	Fields []Field
}

// New builds a schema from its top-level fields.
func New(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// Lookup returns the field addressed by path.
func (s *Schema) Lookup(path []string) (*Field, bool) {
	if len(path) == 0 {
		return nil, false
	}
	f, ok := find(s.Fields, path[0])
	for _, seg := range path[1:] {
		if !ok || f.IsLeaf() {
			return nil, false
		}
		f, ok = f.Child(seg)
	}
	return f, ok
}

// Leaf is a leaf field together with its key path.
type Leaf struct {
	Path  []string
	Field *Field
}

// Leaves enumerates every leaf field in declaration order.
func (s *Schema) Leaves() []Leaf {
	var out []Leaf
	var walk func(prefix []string, fields []Field)
	walk = func(prefix []string, fields []Field) {
		for i := range fields {
			f := &fields[i]
			path := append(append([]string(nil), prefix...), f.Name)
			if f.IsLeaf() {
				out = append(out, Leaf{Path: path, Field: f})
				continue
			}
			walk(path, f.Fields)
		}
	}
	walk(nil, s.Fields)
	return out
}

// Defaults renders every declared default as a layer.
func (s *Schema) Defaults() layer.Layer {
	out := layer.Layer{}
	for _, leaf := range s.Leaves() {
		if leaf.Field.Default == nil {
			continue
		}
		out.Set(leaf.Path, layer.CloneValue(leaf.Field.Default))
	}
	return out
}

func find(fields []Field, name string) (*Field, bool) {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i], true
		}
	}
	return nil, false
}
