package settings

import (
	"go.uber.org/multierr"

	"github.com/eugenenazirov/fautil/internal/coerce"
	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/merge"
	"github.com/eugenenazirov/fautil/internal/schema"
)

// decodeTree walks s against the merged document and returns the coerced
// tree, or a *ValidationError listing every failure in schema order.
func decodeTree(s *schema.Schema, merged layer.Layer, sources merge.Sources) (layer.Layer, error) {
	w := &walker{sources: sources}
	out := w.object(nil, s.Fields, merged)
	if w.errs != nil {
		return nil, &ValidationError{Problems: multierr.Errors(w.errs)}
	}
	return out, nil
}

type walker struct {
	sources merge.Sources
	errs    error
}

func (w *walker) object(prefix []string, fields []schema.Field, values layer.Layer) layer.Layer {
	out := layer.Layer{}
	for i := range fields {
		f := &fields[i]
		path := append(append([]string(nil), prefix...), f.Name)
		key := layer.JoinPath(path)
		raw, present := values[f.Name]

		if !f.IsLeaf() {
			if f.Optional && (!w.sources.Under(key) || (present && raw == nil)) {
				continue
			}
			var sub layer.Layer
			if present && raw != nil {
				m, ok := layer.AsMap(raw)
				if !ok {
					w.fail(&coerce.Error{Key: key, Raw: raw, Target: schema.KindObject})
					continue
				}
				sub = m
			}
			out[f.Name] = w.object(path, f.Fields, sub)
			continue
		}

		if !present || raw == nil {
			if f.Required {
				w.fail(&MissingFieldError{Key: key})
				continue
			}
			if f.Default != nil {
				out[f.Name] = layer.CloneValue(f.Default)
				continue
			}
			out[f.Name] = zeroValue(f.Kind)
			continue
		}

		v, err := coerce.Coerce(key, raw, f.Kind)
		if err != nil {
			w.fail(err)
			continue
		}
		out[f.Name] = v
	}
	return out
}

func (w *walker) fail(err error) {
	w.errs = multierr.Append(w.errs, err)
}

func zeroValue(kind schema.Kind) any {
	switch kind {
	case schema.KindBool:
		return false
	case schema.KindInt:
		return 0
	case schema.KindFloat:
		return 0.0
	case schema.KindStringList:
		return []string{}
	default:
		return ""
	}
}
