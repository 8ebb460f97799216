package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultDir is the registry root used when none is configured.
var DefaultDir = "model-storage"

// FileStore keeps each model version in its own file under a root directory.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at root, creating the directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("could not make dir '%s': %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the root directory of the store.
func (f *FileStore) Root() string {
	return f.root
}

func (f *FileStore) path(k Key) string {
	return filepath.Join(f.root, k.Name, k.Version+Extension)
}

// Store writes data for k. The file is written to a temporary name first and
// renamed into place, so readers never see a partial model.
func (f *FileStore) Store(k Key, data []byte) error {
	if err := k.Validate(); err != nil {
		return err
	}

	dir := filepath.Join(f.root, k.Name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("could not make dir '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create file in '%s': %w", dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		log.Error().Err(err).Str("key", k.String()).Msg("could not write model")
		return fmt.Errorf("could not write '%s': %w", k, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close '%s': %w", k, err)
	}
	if err := os.Rename(tmp.Name(), f.path(k)); err != nil {
		log.Error().Err(err).Str("key", k.String()).Msg("could not store model")
		return fmt.Errorf("could not store '%s': %w", k, err)
	}

	log.Debug().Str("key", k.String()).Int("bytes", len(data)).Msg("stored model")
	return nil
}

// Load reads the data stored for k.
func (f *FileStore) Load(k Key) ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(k))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", NotFoundErr, k)
	}
	if err != nil {
		log.Error().Err(err).Str("key", k.String()).Msg("could not load model")
		return nil, fmt.Errorf("%w: %s: %w", CouldNotLoadErr, k, err)
	}
	return data, nil
}

// Versions lists the stored versions of name in ascending order.
func (f *FileStore) Versions(name string) ([]string, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(f.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", NotFoundErr, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", CouldNotLoadErr, name, err)
	}

	var versions []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, Extension) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(n, Extension))
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: %s", NotFoundErr, name)
	}
	sort.Strings(versions)
	return versions, nil
}
