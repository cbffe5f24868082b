// Package models defines server-side data models persisted in the database.
package models

import "time"

// StorageObject is the metadata record for one persisted item of any kind.
// Path is derived once at creation from (author, kind, name) and never
// recomputed; renaming the record does not move the underlying bytes.
// Only SharedUsers is mutable after creation.
type StorageObject struct {
	// ID is assigned by the record store.
	ID string `json:"id"`
	// Name is the original, unmodified filename.
	Name string `json:"name"`
	// Path is the resolved storage location of the ciphertext.
	Path string `json:"path"`
	// Weight is the payload size in bytes, used for quota accounting.
	Weight int64 `json:"weight"`
	// UploadedAt is set at creation and immutable.
	UploadedAt time.Time `json:"upload_at"`
	// Author is the owning account identifier, immutable after creation.
	Author string `json:"author"`
	// SharedUsers lists accounts granted read access, empty at creation.
	SharedUsers []string `json:"shared_users"`
}

// QuotaConfig is the process-wide storage quota, read-only to the core.
type QuotaConfig struct {
	// Max is the permitted total weight per account, in bytes.
	Max int64
}
