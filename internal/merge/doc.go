// Package merge deep-merges configuration layers. Layers are applied from the
// lowest to the highest priority; mappings merge key by key while any other
// value, including a mapping meeting a non-mapping, is replaced outright by
// the higher layer.
package merge
