package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/fautil/internal/layer"
)

var (
	errNotMapping = errors.New("top-level document must be a mapping")
	yamlLine      = regexp.MustCompile(`line (\d+)`)
)

// Loader reads documents from a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a Loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load parses the YAML or JSON document at path. An empty path yields an
// empty layer.
func (l *Loader) Load(path string) (layer.Layer, error) {
	if path == "" {
		return layer.Layer{}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	var parse func(string, []byte) (layer.Layer, error)
	switch ext {
	case ".yaml", ".yml":
		parse = parseYAML
	case ".json":
		parse = parseJSON
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return parse(path, data)
}

func parseYAML(path string, data []byte) (layer.Layer, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Line: yamlErrorLine(err), Err: err}
	}
	if doc == nil {
		return layer.Layer{}, nil
	}
	m, ok := normalize(doc).(layer.Layer)
	if !ok {
		return nil, &ParseError{Path: path, Err: errNotMapping}
	}
	return m, nil
}

func parseJSON(path string, data []byte) (layer.Layer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return layer.Layer{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Path: path, Line: jsonErrorLine(data, err), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: errors.New("unexpected data after top-level value")}
	}
	m, ok := normalize(doc).(layer.Layer)
	if !ok {
		return nil, &ParseError{Path: path, Err: errNotMapping}
	}
	return m, nil
}

// normalize turns every mapping into a Layer with string keys.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(layer.Layer, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(layer.Layer, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

func yamlErrorLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func jsonErrorLine(data []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
