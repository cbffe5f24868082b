package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/server/models"
)

// DeleteOutcome is the per-object result of a batch delete.
type DeleteOutcome string

const (
	OutcomeDeleted   DeleteOutcome = "deleted"
	OutcomeNotFound  DeleteOutcome = "not_found"
	OutcomeForbidden DeleteOutcome = "forbidden"
	OutcomeIOFailed  DeleteOutcome = "io_failed"
)

// DeleteResult pairs an object id with its outcome.
type DeleteResult struct {
	ID      string        `json:"id"`
	Outcome DeleteOutcome `json:"outcome"`
}

// DeleteMany removes the given objects for the requesting account. Each id
// is processed independently and concurrently; one object's failure never
// prevents processing of the others. The returned slice has exactly one
// outcome per id, in input order, and is only returned after every unit of
// work has finished.
//
// An error return is reserved for account-level preconditions; per-object
// failures are data in the result.
func (s *StorageService) DeleteMany(ctx context.Context, accountID string, ids []string) ([]DeleteResult, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: empty account identifier", common.ErrForbidden)
	}

	results := make([]DeleteResult, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = DeleteResult{ID: id, Outcome: s.deleteOne(ctx, accountID, id)}
			return nil
		})
	}
	// Workers only report through the results slice.
	_ = g.Wait()

	return results, nil
}

// deleteOne looks the object up across every kind partition, checks
// ownership, and removes the metadata record before the bytes. A failing
// byte deletion is reported as IOFailed without rolling the record back;
// the orphaned ciphertext is logged so it can be collected later.
func (s *StorageService) deleteOne(ctx context.Context, accountID, id string) DeleteOutcome {
	for _, kind := range models.AllKinds() {
		obj, err := s.rm.Objects(kind).FindByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			s.logger.Error(ctx, "object lookup failed", "id", id, "err", err)
			return OutcomeIOFailed
		}

		if err := assertOwner(accountID, obj); err != nil {
			return OutcomeForbidden
		}

		if _, err := s.rm.Objects(kind).RemoveByID(ctx, id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// A concurrent delete won the race.
				return OutcomeNotFound
			}
			s.logger.Error(ctx, "record removal failed", "id", id, "err", err)
			return OutcomeIOFailed
		}

		if err := s.store.DeleteAt(ctx, obj.Path); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// The record pointed at already-absent bytes; the intent of
				// the delete is satisfied.
				s.logger.Warn(ctx, "bytes already absent", "id", id, "path", obj.Path)
				return OutcomeDeleted
			}
			s.logger.Error(ctx, "byte deletion failed, ciphertext orphaned",
				"id", id, "path", obj.Path, "err", err)
			return OutcomeIOFailed
		}

		s.logger.Info(ctx, "object deleted", "id", id, "author", accountID,
			"name", obj.Name)
		return OutcomeDeleted
	}

	return OutcomeNotFound
}
