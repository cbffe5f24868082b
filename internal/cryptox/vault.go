// Package cryptox implements the encryption engine for object payloads:
// AES-GCM over a process-wide key, with the ciphertext persisted through a
// blob.Store. Plaintext never touches the backend.
package cryptox

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/streamsforlab/mediastore/internal/blob"
	"github.com/streamsforlab/mediastore/internal/common"
)

// Vault encrypts payloads before they are stored and decrypts them on read.
// The key is fixed at construction and never rotated for the process
// lifetime.
type Vault struct {
	aead  cipher.AEAD
	store blob.Store
}

// NewVault builds a vault over the given store. The key must be a valid AES
// key length (16, 24, or 32 bytes).
func NewVault(key []byte, store blob.Store) (*Vault, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	return &Vault{aead: aead, store: store}, nil
}

// EncryptAndStore seals plaintext with a fresh random nonce and writes
// nonce||ciphertext to location.
func (v *Vault) EncryptAndStore(ctx context.Context, plaintext []byte, location string) error {
	nonce := common.GenerateRandByteArray(v.aead.NonceSize())

	sealed := v.aead.Seal(nonce, nonce, plaintext, nil)

	if err := v.store.WriteBytes(ctx, location, sealed); err != nil {
		return err
	}
	return nil
}

// LoadAndDecrypt reads nonce||ciphertext from location and returns the
// original plaintext. It reports common.ErrNotFound when the location is
// absent and common.ErrDecryption when the ciphertext is malformed or the
// key cannot recover it.
func (v *Vault) LoadAndDecrypt(ctx context.Context, location string) ([]byte, error) {
	sealed, err := v.store.ReadBytes(ctx, location)
	if err != nil {
		return nil, err
	}

	ns := v.aead.NonceSize()
	if len(sealed) < ns {
		return nil, fmt.Errorf("%w: ciphertext shorter than nonce", common.ErrDecryption)
	}

	nonce, ciphertext := sealed[:ns], sealed[ns:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return plaintext, nil
}
