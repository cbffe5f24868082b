package cryptox

import "golang.org/x/crypto/argon2"

// DeriveMasterKey derives a 32-byte AES key from a passphrase and salt
// using argon2id. The same inputs always produce the same key, so the
// server can be restarted without re-keying stored objects.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}
