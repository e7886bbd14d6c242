package document

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

var (
	errMissingSeparator = errors.New("expected KEY=VALUE")
	errEmptyKey         = errors.New("empty key")
)

// LoadDotenv reads a .env file into a flat map. Blank lines and lines starting
// with # are skipped; values are copied literally after trimming surrounding
// whitespace. An empty path yields an empty map.
func (l *Loader) LoadDotenv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return parseDotenv(path, data)
}

func parseDotenv(path string, data []byte) (map[string]string, error) {
	out := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{Path: path, Line: lineNo, Err: errMissingSeparator}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &ParseError{Path: path, Line: lineNo, Err: errEmptyKey}
		}
		out[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return out, nil
}
