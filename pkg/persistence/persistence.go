// Package persistence writes results to a destination with a pluggable
// serialization format.
package persistence

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	indent = "  " // Default indentation for JSON output
	prefix = ""   // Default prefix for JSON output
)

type Serializer interface {
	Marshal(data any) ([]byte, error)
}

type Writer interface {
	Write(name string, data []byte) error
}

type JSONSerializer struct {
	Prefix, Indent string
}

func (s JSONSerializer) Marshal(data any) ([]byte, error) {
	return json.MarshalIndent(data, s.Prefix, s.Indent)
}

// FileWriter writes to name through a temp file and a rename.
type FileWriter struct {
	Overwrite bool
}

func (w FileWriter) Write(filename string, data []byte) error {
	if filename == "" {
		return os.ErrInvalid
	}
	if _, err := os.Stat(filename); !os.IsNotExist(err) && !w.Overwrite {
		return os.ErrExist
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

// StreamWriter writes to an io.Writer such as os.Stdout, ignoring the name.
type StreamWriter struct {
	W io.Writer
}

func (w StreamWriter) Write(_ string, data []byte) error {
	if _, err := w.W.Write(data); err != nil {
		return err
	}
	_, err := w.W.Write([]byte("\n"))
	return err
}

// WriteJSONTo persists data using the provided Serializer and Writer.
func WriteJSONTo(data any, name string, serializer Serializer, writer Writer) error {
	bytes, err := serializer.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := writer.Write(name, bytes); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}

// WriteJSON writes data as indented JSON to filename, or to stdout when
// filename is empty or "-".
func WriteJSON(data any, filename string) error {
	serializer := JSONSerializer{Prefix: prefix, Indent: indent}
	if filename == "" || filename == "-" {
		return WriteJSONTo(data, "stdout", serializer, StreamWriter{W: os.Stdout})
	}
	return WriteJSONTo(data, filename, serializer, FileWriter{Overwrite: true})
}
