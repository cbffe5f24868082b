// Package common defines shared constants and sentinel errors used across
// the media storage service. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authorization errors (requester is not the recorded author).
	ErrForbidden = errors.New("forbidden")

	// Path resolution errors (empty or unsafe object name).
	ErrInvalidName = errors.New("invalid object name")

	// Name collision errors (an object already occupies the resolved path).
	ErrDuplicate = errors.New("object already exists")

	// Quota errors.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// Cipher errors.
	ErrEncryption = errors.New("encryption failed")
	ErrDecryption = errors.New("decryption failed")

	// Byte storage errors.
	ErrIO = errors.New("i/o failure")

	// Metadata persistence errors.
	ErrStore = errors.New("metadata store failure")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
