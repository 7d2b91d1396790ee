/*
Package backup encrypts and decrypts snapshot exports.

PURPOSE:
  A backup is the tenant's snapshot JSON, encrypted with a password so it
  can travel outside the system (email, USB stick, object storage). The
  password is stretched with scrypt and the payload sealed with
  AES-256-GCM, so a tampered or truncated file fails authentication
  instead of decoding to garbage.

ENVELOPE FORMAT:
  "SVBK1:" || base64(salt || nonce || ciphertext)

  salt   16 bytes, random per backup, feeds scrypt
  nonce  12 bytes, random per backup, feeds GCM

  The version prefix lets a future format change decrypt old files.

SEE ALSO:
  - engine.LoadSnapshot: How a decrypted backup re-enters the system
  - store/sqlite: Unencrypted at-rest persistence of the same document
*/
package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	envelopePrefix = "SVBK1:"
	saltSize       = 16
	keySize        = 32

	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

var (
	// ErrInvalidFormat is returned when the input is not a recognized
	// backup envelope.
	ErrInvalidFormat = errors.New("not a valid backup file")

	// ErrWrongPassword is returned when authentication fails. A corrupted
	// file is indistinguishable from a wrong password.
	ErrWrongPassword = errors.New("wrong password or corrupted backup")

	// ErrEmptyPassword rejects backups that would be trivially openable.
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Encrypt seals the snapshot JSON under the password and returns the
// envelope string.
func Encrypt(snapshot []byte, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, snapshot, nil)

	payload := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	return envelopePrefix + base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt opens an envelope produced by Encrypt and returns the snapshot
// JSON.
func Decrypt(envelope, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if !strings.HasPrefix(envelope, envelopePrefix) {
		return nil, ErrInvalidFormat
	}

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(envelope, envelopePrefix))
	if err != nil {
		return nil, ErrInvalidFormat
	}

	if len(payload) < saltSize {
		return nil, ErrInvalidFormat
	}
	salt := payload[:saltSize]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(payload) < saltSize+nonceSize {
		return nil, ErrInvalidFormat
	}
	nonce := payload[saltSize : saltSize+nonceSize]
	sealed := payload[saltSize+nonceSize:]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return plain, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
