// Package blob abstracts the byte storage that holds encrypted object
// payloads. The vault writes ciphertext through a Store and never sees
// where the bytes land; backends exist for the local filesystem and for
// S3-compatible object storage.
package blob

import "context"

// Store persists raw byte payloads at path-like locations.
//
// Implementations report common.ErrNotFound when a location is absent and
// wrap other failures in common.ErrIO.
type Store interface {
	// WriteBytes stores data at location, creating any intermediate
	// structure the backend needs.
	WriteBytes(ctx context.Context, location string, data []byte) error

	// ReadBytes returns the payload previously stored at location.
	ReadBytes(ctx context.Context, location string) ([]byte, error)

	// DeleteAt removes the payload at location.
	DeleteAt(ctx context.Context, location string) error

	// EnsureDir prepares the container for the given location (a directory
	// on disk). Backends without directories treat this as a no-op.
	EnsureDir(ctx context.Context, location string) error
}
