package fetch

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Envelope layout for .enc objects: salt(16) + nonce(12) + ciphertext.
// The AES-256 key is derived from the passphrase with PBKDF2-SHA256.
const (
	saltSize  = 16
	nonceSize = 12
	kdfRounds = 100000
	keySize   = 32
)

func decryptGCM(payload []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("encrypted source but no passphrase configured")
	}
	if len(payload) < saltSize+nonceSize {
		return nil, fmt.Errorf("encrypted payload too short: %d bytes", len(payload))
	}

	salt := payload[:saltSize]
	nonce := payload[saltSize : saltSize+nonceSize]
	ciphertext := payload[saltSize+nonceSize:]

	key := pbkdf2.Key([]byte(passphrase), salt, kdfRounds, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm decryption failed: %w", err)
	}
	return plain, nil
}
