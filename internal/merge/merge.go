package merge

import (
	"strings"

	"github.com/eugenenazirov/fautil/internal/layer"
)

// Sources maps dotted leaf paths to the source that supplied them.
type Sources map[string]layer.Source

// Under reports whether any leaf beneath prefix came from a source other
// than the defaults.
func (s Sources) Under(prefix string) bool {
	for key, src := range s {
		if src == layer.SourceDefault {
			continue
		}
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			return true
		}
	}
	return false
}

// Merge combines layers ordered from lowest to highest priority. Null values
// are skipped. Inputs are never modified.
func Merge(layers ...layer.Layer) layer.Layer {
	out := layer.Layer{}
	for _, l := range layers {
		mergeInto(out, l, nil, "", nil)
	}
	return out
}

// Tracked merges like Merge and records the source of every resulting leaf.
func Tracked(layers ...layer.Named) (layer.Layer, Sources) {
	out := layer.Layer{}
	sources := Sources{}
	for _, l := range layers {
		mergeInto(out, l.Layer, sources, l.Source, nil)
	}
	return out, sources
}

func mergeInto(dst, src layer.Layer, sources Sources, source layer.Source, prefix []string) {
	for key, value := range src {
		if value == nil {
			// null means unset: whatever a lower layer holds survives.
			continue
		}
		path := append(append([]string(nil), prefix...), key)
		dotted := layer.JoinPath(path)

		srcMap, srcIsMap := layer.AsMap(value)
		dstMap, dstIsMap := layer.AsMap(dst[key])
		switch {
		case srcIsMap && dstIsMap:
			mergeInto(dstMap, srcMap, sources, source, path)
		case srcIsMap:
			forget(sources, dotted)
			fresh := layer.Layer{}
			mergeInto(fresh, srcMap, sources, source, path)
			dst[key] = fresh
		default:
			forget(sources, dotted)
			dst[key] = layer.CloneValue(value)
			record(sources, dotted, source)
		}

		if srcIsMap && len(srcMap) == 0 {
			// An empty section still counts as configured by its source.
			record(sources, dotted, source)
		}
	}
}

func record(sources Sources, key string, source layer.Source) {
	if sources != nil {
		sources[key] = source
	}
}

// forget drops the recorded sources at and beneath key, which a replacing
// value no longer inherits.
func forget(sources Sources, key string) {
	if sources == nil {
		return
	}
	for k := range sources {
		if k == key || strings.HasPrefix(k, key+".") {
			delete(sources, k)
		}
	}
}
