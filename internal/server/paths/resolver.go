// Package paths derives canonical storage locations for objects from the
// account identifier, media kind, and original name. Resolution is pure:
// the same inputs always produce the same location.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/server/models"
)

// Resolver builds locations under a fixed storage root.
type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// AccountSegment normalizes an account identifier into a filesystem-safe
// path segment: lowercased, trimmed, spaces replaced with hyphens.
func AccountSegment(accountID string) string {
	segment := strings.ToLower(strings.TrimSpace(accountID))
	return strings.ReplaceAll(segment, " ", "-")
}

// AccountRoot returns the per-account directory under the storage root.
func (r *Resolver) AccountRoot(accountID string) string {
	return filepath.Join(r.root, AccountSegment(accountID))
}

// Resolve returns the storage location for (accountID, kind, name).
// It rejects empty names and names carrying path traversal sequences with
// common.ErrInvalidName.
func (r *Resolver) Resolve(accountID string, kind models.MediaKind, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", common.ErrInvalidName)
	}
	if strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidName, name)
	}

	return filepath.Join(r.AccountRoot(accountID), kind.Subdir(), name), nil
}
