// Package services implements the encrypted storage core: the upload
// pipeline, download path, storage accounting, and batch deletion.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/streamsforlab/mediastore/internal/blob"
	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/cryptox"
	"github.com/streamsforlab/mediastore/internal/logging"
	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/paths"
	"github.com/streamsforlab/mediastore/internal/server/repositories/repomanager"
)

// StorageService orchestrates object ingestion, download, listing,
// accounting, and account provisioning over the record stores, the vault,
// and the blob backend. The quota and key material are fixed at
// construction.
type StorageService struct {
	rm           repomanager.RepositoryManager
	vault        *cryptox.Vault
	store        blob.Store
	resolver     *paths.Resolver
	quota        models.QuotaConfig
	enforceQuota bool
	logger       logging.Logger
}

func NewStorageService(
	rm repomanager.RepositoryManager,
	vault *cryptox.Vault,
	store blob.Store,
	resolver *paths.Resolver,
	quota models.QuotaConfig,
	enforceQuota bool,
	logger logging.Logger,
) *StorageService {
	return &StorageService{
		rm:           rm,
		vault:        vault,
		store:        store,
		resolver:     resolver,
		quota:        quota,
		enforceQuota: enforceQuota,
		logger:       logger.With("module", "storage_service"),
	}
}

// Ingest classifies, encrypts, persists, and records one incoming object.
// Each step is a hard precondition for the next; a metadata failure after
// the bytes were persisted triggers cleanup of the orphaned ciphertext.
func (s *StorageService) Ingest(ctx context.Context, accountID string, kind models.MediaKind,
	name string, payload []byte, size int64) (*models.StorageObject, error) {

	location, err := s.resolver.Resolve(accountID, kind, name)
	if err != nil {
		return nil, err
	}

	// A second upload of the same (author, kind, name) resolves to the same
	// location; writing there would overwrite the existing object's bytes.
	if _, err := s.rm.Objects(kind).FindByPath(ctx, location); err == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicate, name)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}

	if s.enforceQuota {
		remaining, err := s.RemainingQuota(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if remaining < size {
			return nil, fmt.Errorf("%w: %d bytes requested, %d remaining",
				common.ErrQuotaExceeded, size, remaining)
		}
	}

	if err := s.vault.EncryptAndStore(ctx, payload, location); err != nil {
		return nil, err
	}

	obj := &models.StorageObject{
		Name:        name,
		Path:        location,
		Weight:      size,
		UploadedAt:  time.Now().UTC(),
		Author:      accountID,
		SharedUsers: []string{},
	}

	created, err := s.rm.Objects(kind).Create(ctx, obj)
	if err != nil {
		// A concurrent upload may have registered a record at this location
		// after the pre-check; its bytes must survive our cleanup.
		if _, findErr := s.rm.Objects(kind).FindByPath(ctx, location); findErr == nil {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicate, name)
		}
		if cleanupErr := s.store.DeleteAt(ctx, location); cleanupErr != nil &&
			!errors.Is(cleanupErr, common.ErrNotFound) {
			s.logger.Error(ctx, "orphaned ciphertext left behind",
				"location", location, "err", cleanupErr)
			return nil, fmt.Errorf("%w: %v (orphaned bytes remain at %s: %v)",
				common.ErrStore, err, location, cleanupErr)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}

	s.logger.Info(ctx, "object stored", "author", accountID, "kind", string(kind),
		"name", name, "weight", size)

	return created, nil
}

// Download returns the metadata record and decrypted payload of an object,
// provided the requester owns it.
func (s *StorageService) Download(ctx context.Context, accountID string, kind models.MediaKind,
	id string) (*models.StorageObject, []byte, error) {

	obj, err := s.rm.Objects(kind).FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := assertOwner(accountID, obj); err != nil {
		return nil, nil, err
	}

	payload, err := s.vault.LoadAndDecrypt(ctx, obj.Path)
	if err != nil {
		return nil, nil, err
	}

	return obj, payload, nil
}

// List returns all objects of one kind owned by the account.
func (s *StorageService) List(ctx context.Context, accountID string, kind models.MediaKind) ([]*models.StorageObject, error) {
	return s.rm.Objects(kind).FindByAuthor(ctx, accountID)
}

// UsedBytes sums the weight of every object the account owns across all
// kinds. An account with no objects uses zero bytes.
func (s *StorageService) UsedBytes(ctx context.Context, accountID string) (int64, error) {
	var total int64
	for _, kind := range models.AllKinds() {
		items, err := s.rm.Objects(kind).FindByAuthor(ctx, accountID)
		if err != nil {
			return 0, err
		}
		for _, item := range items {
			total += item.Weight
		}
	}
	return total, nil
}

// RemainingQuota reports how many bytes the account may still store. The
// result can be negative; enforcement policy belongs to the upload path.
func (s *StorageService) RemainingQuota(ctx context.Context, accountID string) (int64, error) {
	used, err := s.UsedBytes(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return s.quota.Max - used, nil
}

// MaxStorage returns the configured per-account quota.
func (s *StorageService) MaxStorage() int64 {
	return s.quota.Max
}

// ProvisionAccount creates the per-account directory tree with one
// subdirectory per media kind. Idempotent; a no-op on backends without
// directories.
func (s *StorageService) ProvisionAccount(ctx context.Context, accountID string) error {
	root := s.resolver.AccountRoot(accountID)
	if err := s.store.EnsureDir(ctx, root); err != nil {
		return err
	}
	for _, kind := range models.AllKinds() {
		if err := s.store.EnsureDir(ctx, filepath.Join(root, kind.Subdir())); err != nil {
			return err
		}
	}
	s.logger.Info(ctx, "account directories provisioned", "account", accountID)
	return nil
}
