package out

import (
	"context"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"

	authout "goalplan/internal/modules/auth/port/out"
	apperrors "goalplan/internal/platform/errors"
)

// DiskvKVStore keeps one file per slot under basePath.
type DiskvKVStore struct {
	d *diskv.Diskv
}

func NewDiskvKVStore(basePath string) (*DiskvKVStore, error) {
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("create kv dir: %w", err)
	}
	return &DiskvKVStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		FilePerm:     0o600,
		PathPerm:     0o700,
	})}, nil
}

var _ authout.KeyValueStore = (*DiskvKVStore)(nil)

func (s *DiskvKVStore) Name() string { return "file" }

func (s *DiskvKVStore) Put(_ context.Context, key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *DiskvKVStore) Get(_ context.Context, key string) (string, error) {
	if !s.d.Has(key) {
		return "", apperrors.ErrNotFound
	}
	raw, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return string(raw), nil
}

func (s *DiskvKVStore) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
