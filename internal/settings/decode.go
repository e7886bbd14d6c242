package settings

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/schema"
)

// Mask replaces non-empty secret values when rendering settings.
const Mask = "******"

// Decode copies the resolved tree into out, a pointer to a struct whose
// fields carry mapstructure tags matching the schema names. Keys without a
// destination field are an error so that schema and struct cannot drift.
func (r *Resolved) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r.Values)); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	return nil
}

// Entry is one resolved leaf.
type Entry struct {
	Key    string       `json:"key" yaml:"key"`
	Value  any          `json:"value" yaml:"value"`
	Source layer.Source `json:"source" yaml:"source"`
	Secret bool         `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// Entries lists every resolved leaf of s in key order. Leaves filled with
// their kind's zero value report the default source. When mask is set,
// non-empty secret values are replaced by Mask.
func (r *Resolved) Entries(s *schema.Schema, mask bool) []Entry {
	var out []Entry
	for _, leaf := range s.Leaves() {
		value, ok := r.Values.Get(leaf.Path)
		if !ok {
			continue
		}
		key := layer.JoinPath(leaf.Path)
		source, ok := r.Sources[key]
		if !ok {
			source = layer.SourceDefault
		}
		if mask && leaf.Field.Secret {
			value = maskValue(value)
		}
		out = append(out, Entry{Key: key, Value: value, Source: source, Secret: leaf.Field.Secret})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Masked returns a copy of the resolved tree with secret values masked.
func (r *Resolved) Masked(s *schema.Schema) layer.Layer {
	out := r.Values.Clone()
	for _, leaf := range s.Leaves() {
		if !leaf.Field.Secret {
			continue
		}
		if value, ok := out.Get(leaf.Path); ok {
			out.Set(leaf.Path, maskValue(value))
		}
	}
	return out
}

func maskValue(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return s
	}
	return Mask
}
