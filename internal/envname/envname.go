package envname

import (
	"sort"
	"strings"

	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/schema"
)

// DefaultPrefix is the prefix every recognised variable carries.
const DefaultPrefix = "FAUTIL_"

const nestedDelimiter = "__"

// Form tells which naming convention a variable used.
type Form int

const (
	FormFlat Form = iota + 1
	FormNested
)

func (f Form) String() string {
	if f == FormNested {
		return "nested"
	}
	return "flat"
}

// Match is a variable resolved to a schema leaf.
type Match struct {
	Name  string
	Path  []string
	Form  Form
	Value string
}

// Mapper translates between variable names and key paths of one schema.
type Mapper struct {
	prefix string
	schema *schema.Schema
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(m *Mapper) {
		m.prefix = prefix
	}
}

// New creates a Mapper bound to s.
func New(s *schema.Schema, opts ...Option) *Mapper {
	m := &Mapper{prefix: DefaultPrefix, schema: s}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve maps a variable name to the leaf it configures.
func (m *Mapper) Resolve(name string) (Match, bool) {
	if len(name) <= len(m.prefix) || !strings.EqualFold(name[:len(m.prefix)], m.prefix) {
		return Match{}, false
	}
	rest := strings.ToLower(name[len(m.prefix):])

	if strings.Contains(rest, nestedDelimiter) {
		path := strings.Split(rest, nestedDelimiter)
		f, ok := m.schema.Lookup(path)
		if !ok || !f.IsLeaf() {
			return Match{}, false
		}
		return Match{Name: name, Path: path, Form: FormNested}, true
	}

	path, ok := matchFlat(rest, m.schema.Fields)
	if !ok {
		return Match{}, false
	}
	return Match{Name: name, Path: path, Form: FormFlat}, true
}

// matchFlat resolves an underscore-joined remainder against fields. The whole
// remainder is tried as a leaf first, then every split point from left to
// right where the head names an object.
func matchFlat(rest string, fields []schema.Field) ([]string, bool) {
	for i := range fields {
		if fields[i].Name == rest && fields[i].IsLeaf() {
			return []string{rest}, true
		}
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != '_' {
			continue
		}
		head, tail := rest[:i], rest[i+1:]
		for j := range fields {
			f := &fields[j]
			if f.Name != head || f.IsLeaf() {
				continue
			}
			if sub, ok := matchFlat(tail, f.Fields); ok {
				return append([]string{head}, sub...), true
			}
		}
	}
	return nil, false
}

// Names lists the variable names that configure path: the flat form first,
// then the nested form when it differs.
func (m *Mapper) Names(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	upper := make([]string, len(path))
	for i, seg := range path {
		upper[i] = strings.ToUpper(seg)
	}
	flat := m.prefix + strings.Join(upper, "_")
	if len(path) == 1 {
		return []string{flat}
	}
	return []string{flat, m.prefix + strings.Join(upper, nestedDelimiter)}
}

// Layer converts variables into a layer of raw string values. Unrecognised
// names are skipped. The returned matches are the ones that took effect,
// ordered by key path.
func (m *Mapper) Layer(vars map[string]string) (layer.Layer, []Match) {
	winners := make(map[string]Match)
	for name, value := range vars {
		match, ok := m.Resolve(name)
		if !ok {
			continue
		}
		match.Value = value
		key := layer.JoinPath(match.Path)
		if current, seen := winners[key]; seen && !overrides(match, current) {
			continue
		}
		winners[key] = match
	}

	keys := make([]string, 0, len(winners))
	for key := range winners {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := layer.Layer{}
	matches := make([]Match, 0, len(keys))
	for _, key := range keys {
		match := winners[key]
		out.Set(match.Path, match.Value)
		matches = append(matches, match)
	}
	return out, matches
}

// overrides decides between two variables targeting the same key: the nested
// form beats the flat form, otherwise the lexically greater name wins so the
// outcome does not depend on map iteration order.
func overrides(candidate, current Match) bool {
	if candidate.Form != current.Form {
		return candidate.Form == FormNested
	}
	return candidate.Name > current.Name
}

// ParseEnviron splits KEY=VALUE entries as returned by os.Environ.
func ParseEnviron(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
