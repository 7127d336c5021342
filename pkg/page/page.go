// Package page loads page descriptions: models whose top-level keys are
// stations, stored as JSON (.jml, .dom.json) or HCL (.jml.hcl).
//
// Stores resolve a page name such as "about" or "docs/intro" by trying
// each of Extensions in order.
package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"

	"github.com/jml-dev/jml/pkg/model"
)

// ErrNotFound is returned when no page exists under a name.
var ErrNotFound = errors.New("page: not found")

// ErrUnsupportedFormat is returned for a file whose extension names no
// known format.
var ErrUnsupportedFormat = errors.New("page: unsupported format")

// Extensions are tried in order when resolving a page name.
var Extensions = []string{".jml", ".dom.json", ".jml.hcl"}

// Page is a decoded page description.
type Page struct {
	// Name is the page name without extension (e.g., "docs/intro").
	Name string

	// Source is the file or object key the page was read from.
	Source string

	// Model is the decoded page model.
	Model any

	// ModTime is the last modification time of the source, if known.
	ModTime time.Time
}

// Store is the interface for page storage backends.
type Store interface {
	// Load resolves and decodes the page named name. It returns an error
	// wrapping ErrNotFound when no source exists.
	Load(ctx context.Context, name string) (*Page, error)

	// List returns every page name in the store, sorted.
	List(ctx context.Context) ([]string, error)
}

// DecodeError reports a page source that could not be decoded. Line and
// Column are set when the decoder reported a position.
type DecodeError struct {
	File   string
	Format string // "json" or "hcl"
	Line   int
	Column int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("page: decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode decodes a page source, choosing the format from the file name.
// Decoding failures are returned as *DecodeError.
func Decode(filename string, data []byte) (any, error) {
	switch {
	case strings.HasSuffix(filename, ".hcl"):
		m, err := DecodeHCL(filename, data)
		if err != nil {
			return nil, decodeError(filename, "hcl", data, err)
		}
		return m, nil
	case strings.HasSuffix(filename, ".jml"), strings.HasSuffix(filename, ".json"):
		m, err := model.DecodeJSON(data)
		if err != nil {
			return nil, decodeError(filename, "json", data, err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

func decodeError(filename, format string, data []byte, err error) *DecodeError {
	de := &DecodeError{File: filename, Format: format, Err: err}
	var diags hcl.Diagnostics
	var syntax *json.SyntaxError
	switch {
	case errors.As(err, &diags):
		for _, d := range diags {
			if d.Severity == hcl.DiagError && d.Subject != nil {
				de.Line, de.Column = d.Subject.Start.Line, d.Subject.Start.Column
				break
			}
		}
	case errors.As(err, &syntax):
		de.Line, de.Column = position(data, syntax.Offset)
	}
	return de
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset-1 && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// NameOf strips a known extension from a file name. ok is false when the
// name has none.
func NameOf(filename string) (name string, ok bool) {
	for _, ext := range Extensions {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext), true
		}
	}
	return filename, false
}

// cleanName validates a page name and normalizes it to a slash path with
// no leading slash. An empty name is "index".
func cleanName(name string) (string, error) {
	name = strings.Trim(name, "/")
	if name == "" {
		return "index", nil
	}
	if strings.Contains(name, "\\") || strings.Contains(name, "\x00") {
		return "", fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return "", fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
		}
	}
	return path.Clean(name), nil
}
