package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/streamsforlab/mediastore/internal/common"
)

// Account trees are private to the service user, matching the 0700 mode
// the provisioning endpoint promises.
const (
	dirMode  = 0o700
	fileMode = 0o600
)

// LocalStore keeps payloads as plain files on the local filesystem. The
// locations it receives are absolute paths produced by the path resolver.
type LocalStore struct{}

func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

func (s *LocalStore) WriteBytes(ctx context.Context, location string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(location), dirMode); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", common.ErrIO, location, err)
	}
	if err := os.WriteFile(location, data, fileMode); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrIO, location, err)
	}
	return nil
}

func (s *LocalStore) ReadBytes(ctx context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, location)
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrIO, location, err)
	}
	return data, nil
}

func (s *LocalStore) DeleteAt(ctx context.Context, location string) error {
	if err := os.Remove(location); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", common.ErrNotFound, location)
		}
		return fmt.Errorf("%w: remove %s: %v", common.ErrIO, location, err)
	}
	return nil
}

func (s *LocalStore) EnsureDir(ctx context.Context, location string) error {
	if err := os.MkdirAll(location, dirMode); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", common.ErrIO, location, err)
	}
	return nil
}
