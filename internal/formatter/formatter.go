// Package formatter rewrites JSON documents with canonical indentation.
package formatter

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/roguetools/internal/config"
	"github.com/mcncl/roguetools/internal/errors"
)

// Formatter canonicalizes files whose name ends in Extension
type Formatter struct {
	Indent    string
	Extension string
}

// NewFormatter creates a Formatter from the JSON section of cfg
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		Indent:    cfg.IndentString(),
		Extension: cfg.FormatJSON.Extension,
	}
}

// Matches reports whether path has exactly the configured extension.
// The comparison is case-sensitive: "a.JSON" does not match ".json".
func (f *Formatter) Matches(path string) bool {
	return filepath.Ext(path) == f.Extension
}

// jsonSpace is the insignificant whitespace JSON allows around a value
const jsonSpace = " \t\r\n"

// Canonicalize re-indents one JSON document. Key order and the spelling of
// numbers and strings are kept; only whitespace changes. The result has no
// trailing newline.
func (f *Formatter) Canonicalize(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(src))

	if err := json.Indent(&buf, bytes.Trim(src, jsonSpace), "", f.Indent); err != nil {
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d: %v", syntaxErr.Offset, syntaxErr),
				errors.ErrInvalidJSON,
			)
		}
		return nil, errors.NewParsingError("failed to parse JSON", err)
	}
	return buf.Bytes(), nil
}

// Prepare reads path and returns its current and canonical contents.
// Nothing is written.
func (f *Formatter) Prepare(path string) (current, canonical []byte, err error) {
	current, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return nil, nil, errors.NewInputError(fmt.Sprintf("failed to read '%s'", path), err)
	}

	canonical, err = f.Canonicalize(current)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			appErr.Message = fmt.Sprintf("%s: %s", path, appErr.Message)
		}
		return nil, nil, err
	}
	return current, canonical, nil
}

// FormatFile rewrites path in place when its extension matches. It returns
// false without error for other files. The document is parsed completely
// before anything is written, so invalid JSON leaves the file untouched.
func (f *Formatter) FormatFile(path string) (bool, error) {
	if !f.Matches(path) {
		return false, nil
	}

	_, canonical, err := f.Prepare(path)
	if err != nil {
		return false, err
	}

	// Existing files keep their mode; the permission only applies on create
	if err := os.WriteFile(path, canonical, 0o644); err != nil {
		return false, errors.NewOutputError(fmt.Sprintf("failed to write '%s'", path), err)
	}
	return true, nil
}

// CheckFile reports whether a matching file differs from its canonical form
// and returns a diff when it does. Nothing is written.
func (f *Formatter) CheckFile(path string) (changed bool, diff string, err error) {
	if !f.Matches(path) {
		return false, "", nil
	}

	current, canonical, err := f.Prepare(path)
	if err != nil {
		return false, "", err
	}
	if bytes.Equal(current, canonical) {
		return false, "", nil
	}

	diff, err = Diff(path, current, canonical)
	if err != nil {
		return true, "", errors.NewFormatError(fmt.Sprintf("failed to diff '%s'", path), err)
	}
	return true, strings.TrimRight(diff, "\n") + "\n", nil
}
