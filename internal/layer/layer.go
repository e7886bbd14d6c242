package layer

import "strings"

// Layer is an untyped nested mapping produced by one configuration source.
// Values are scalars, lists or nested Layers.
type Layer map[string]any

// Source identifies the configuration source a value came from.
type Source string

const (
	// SourceDefault marks a compiled-in default.
	SourceDefault Source = "default"
	// SourceFile marks a value read from config.yaml or config.json.
	SourceFile Source = "file"
	// SourceDotenv marks a value read from a .env file.
	SourceDotenv Source = "dotenv"
	// SourceEnv marks a value read from the process environment.
	SourceEnv Source = "env"
)

// Named pairs a layer with the source that produced it.
type Named struct {
	Source Source
	Layer  Layer
}

// JoinPath renders a key path in dotted form, e.g. "db.pool_size".
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}

// SplitPath is the inverse of JoinPath.
func SplitPath(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}

// AsMap reports whether v is a mapping and returns it as a Layer.
func AsMap(v any) (Layer, bool) {
	switch m := v.(type) {
	case Layer:
		return m, true
	case map[string]any:
		return Layer(m), true
	default:
		return nil, false
	}
}

// Get returns the value stored at path.
func (l Layer) Get(path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var cur any = l
	for _, seg := range path {
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at path, creating intermediate mappings as needed. A
// non-mapping value sitting on the way is replaced by a new mapping.
func (l Layer) Set(path []string, value any) {
	if len(path) == 0 {
		return
	}
	cur := l
	for _, seg := range path[:len(path)-1] {
		next, ok := AsMap(cur[seg])
		if !ok {
			next = Layer{}
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// Clone returns a deep copy of l. Nested maps are copied as Layers and slices
// are copied element by element.
func (l Layer) Clone() Layer {
	if l == nil {
		return Layer{}
	}
	out := make(Layer, len(l))
	for k, v := range l {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies mappings and slices; scalars are returned as is.
func CloneValue(v any) any {
	if m, ok := AsMap(v); ok {
		return m.Clone()
	}
	switch s := v.(type) {
	case []any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	return v
}
