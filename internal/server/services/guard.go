package services

import (
	"fmt"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/server/models"
)

// assertOwner verifies that the requesting account is the recorded author
// of the object. Equality is an exact string match; identifiers are
// case-sensitive and no normalization happens here.
func assertOwner(requesterID string, obj *models.StorageObject) error {
	if requesterID != obj.Author {
		return fmt.Errorf("%w: object %s", common.ErrForbidden, obj.ID)
	}
	return nil
}
