// Package sink persists output documents.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer serializes a document to a destination path.
type Writer interface {
	Write(ctx context.Context, path string, doc any) (Result, error)
}

// Result describes a completed write.
type Result struct {
	Path    string
	Bytes   int
	Changed bool
}

// JSONWriter writes pretty-printed UTF-8 JSON without escaping non-ASCII
// or HTML characters. Output goes to a temporary file that is renamed into
// place, and a byte-identical existing file is left untouched.
type JSONWriter struct {
	indent   string
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewJSONWriter creates a writer with two-space indentation.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{indent: "  ", dirPerm: 0o755, filePerm: 0o644}
}

// Encode renders doc in the writer's format.
func (w *JSONWriter) Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", w.indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrWrite, err)
	}
	return buf.Bytes(), nil
}

// Write encodes doc and stores it at path, creating the parent directory.
func (w *JSONWriter) Write(ctx context.Context, path string, doc any) (Result, error) {
	if path == "" {
		return Result{}, fmt.Errorf("%w: output path required", ErrWrite)
	}
	data, err := w.Encode(doc)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Path: path, Bytes: len(data)}
	if err := os.MkdirAll(filepath.Dir(path), w.dirPerm); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return res, nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, w.filePerm); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	res.Changed = true
	return res, nil
}
