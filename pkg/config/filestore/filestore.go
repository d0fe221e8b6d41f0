package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andrej220/hamprobe/pkg/config/configstore"
	"gopkg.in/yaml.v3"
)

var _ configstore.ConfigStore = (*FileStore)(nil)

var (
	// ErrEmpty is returned by Load when the file holds no document.
	ErrEmpty = errors.New("config file is empty")
	// ErrMultipleDocuments is returned by Load when the file holds more than one document.
	ErrMultipleDocuments = errors.New("config file holds more than one document")
)

type FileStore struct {
	Path string
}

func New(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load decodes the single YAML document at Path into out. A bare scalar
// such as "3" is a valid document.
func (f *FileStore) Load(out any) error {
	if out == nil {
		return fmt.Errorf("Load: output parameter must not be nil")
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("Load: failed to read file %s: %w", f.Path, err)
	}

	if len(data) == 0 {
		return fmt.Errorf("Load: %s: %w", f.Path, ErrEmpty)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("Load: %s: %w", f.Path, ErrEmpty)
		}
		return fmt.Errorf("Load: failed to parse YAML in %s: %w", f.Path, err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("Load: %s: %w", f.Path, ErrMultipleDocuments)
	}

	return nil
}
