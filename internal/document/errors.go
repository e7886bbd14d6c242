package document

import "fmt"

// UnsupportedFormatError is returned for files whose extension is neither
// YAML nor JSON.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config format %q: %s", e.Ext, e.Path)
}

// ParseError is returned for malformed documents. Line is 1-based and zero
// when the parser did not report a position.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse config %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
