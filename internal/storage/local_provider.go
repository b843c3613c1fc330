package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// LocalProvider keeps one file per key under dir.
type LocalProvider struct {
	dir string
}

func NewLocalProvider(dir string) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating storage directory: %w", err)
	}
	return &LocalProvider{dir: dir}, nil
}

func (p *LocalProvider) path(key string) string {
	return filepath.Join(p.dir, url.PathEscape(key))
}

func (p *LocalProvider) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(p.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (p *LocalProvider) Put(key string, value []byte) error {
	tmp, err := os.CreateTemp(p.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Rename is atomic, so readers never see a half written value.
	return os.Rename(tmp.Name(), p.path(key))
}

func (p *LocalProvider) Delete(key string) error {
	err := os.Remove(p.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (p *LocalProvider) Close() error {
	return nil
}
