// Package storage keeps versioned, encoded models.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Extension is the file extension of stored models.
const Extension = ".pctx"

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
	InvalidKeyErr   = errors.New("invalid key")
)

// Key identifies one stored model version.
type Key struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewKey returns a key for a new version of name. Versions are time-ordered
// UUIDs, so a lexical sort of versions is a sort by creation time.
func NewKey(name string) (Key, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Key{}, fmt.Errorf("could not generate version: %w", err)
	}
	return Key{Name: name, Version: id.String()}, nil
}

// Path returns the relative path of the key: <name>/<version>.pctx.
func (k Key) Path() string {
	return k.Name + "/" + k.Version + Extension
}

func (k Key) String() string {
	return k.Name + "@" + k.Version
}

// Validate checks that k can be used as a storage path.
func (k Key) Validate() error {
	if err := validName(k.Name); err != nil {
		return err
	}
	if _, err := uuid.Parse(k.Version); err != nil {
		return fmt.Errorf("%w: version %q: %w", InvalidKeyErr, k.Version, err)
	}
	return nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: name %q", InvalidKeyErr, name)
	}
	return nil
}

// Persistence stores opaque encoded models by key.
type Persistence interface {
	Store(k Key, data []byte) error
	Load(k Key) ([]byte, error)
	// Versions returns the stored versions of name in ascending order.
	Versions(name string) ([]string, error)
}
