package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Card numbers carry a fixed bank identification prefix.
const cardNumberPrefix = "4000"

// Cryptographic failure kinds surfaced to callers.
var (
	ErrKeyGeneration = errors.New("key generation failed")
	ErrEncryption    = errors.New("encryption failed")
	ErrDecryption    = errors.New("decryption failed")
)

// GenerateAESKey generates a fresh 256-bit AES key, base64-encoded.
// Each card gets its own key so a single key compromise exposes a
// single record.
func GenerateAESKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt encrypts a string with AES-256-GCM under the given base64 key.
// The nonce is prepended to the ciphertext and the whole blob is
// base64-encoded for storage as text.
func Encrypt(plaintext, base64Key string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: input data is empty", ErrEncryption)
	}
	aead, err := newAEAD(base64Key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decrypts a base64 blob produced by Encrypt. A wrong key or a
// corrupt blob fails GCM authentication and is reported as ErrDecryption.
func Decrypt(encrypted, base64Key string) (string, error) {
	if encrypted == "" {
		return "", fmt.Errorf("%w: encrypted data is empty", ErrDecryption)
	}
	aead, err := newAEAD(base64Key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	blob, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode base64: %v", ErrDecryption, err)
	}
	if len(blob) < aead.NonceSize() {
		return "", fmt.Errorf("%w: encrypted data too short: %d bytes", ErrDecryption, len(blob))
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return string(plaintext), nil
}

func newAEAD(base64Key string) (cipher.AEAD, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %v", err)
	}
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %v", err)
	}
	return cipher.NewGCM(block)
}

// GenerateCardNumber generates a card number of the form
// "4000 1234 5678 9012": a fixed bank prefix and 12 random digits,
// grouped in 4s. Confidentiality comes from encryption at rest, not
// from the number being unguessable.
func GenerateCardNumber() (string, error) {
	digits := make([]byte, 12)
	if _, err := rand.Read(digits); err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(cardNumberPrefix)
	for i, b := range digits {
		if i%4 == 0 {
			builder.WriteByte(' ')
		}
		builder.WriteByte(b%10 + '0')
	}
	return builder.String(), nil
}

// MaskCardNumber returns the display form of a card number, e.g.
// "**** **** **** 9012".
func MaskCardNumber(panLast4 string) string {
	return "**** **** **** " + panLast4
}

// PanLast4 returns the trailing 4 characters of a raw card number.
func PanLast4(cardNumber string) string {
	if len(cardNumber) < 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
