package slotcfg

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

// Credential sealing for the MQTT/REST secrets a slot file carries (SPEC_FULL
// supplement: these are never written in plaintext, following the teacher's
// auth package's PBKDF2+chacha20poly1305 pattern).

const (
	credentialPBKDF2Iterations = 100000
	credentialSalt             = "flipcore-slot-credential-v1"
)

// deriveCredentialKey stretches a passphrase (the device's pairing secret,
// supplied out-of-band by the `flipcore pair` command) to a 32-byte AEAD key.
func deriveCredentialKey(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(credentialSalt), credentialPBKDF2Iterations, chacha20poly1305.KeySize, sha256.New)
}

// SealCredential encrypts plaintext (an MQTT broker password or REST bearer
// token) for storage inside a slot file, returning a base64 blob safe to
// embed in the slot's AT-reverse text.
func SealCredential(passphrase, plaintext string) (string, error) {
	key := deriveCredentialKey(passphrase)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", fmt.Errorf("init credential cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate credential nonce: %w", err)
	}

	ct := aead.Seal(nil, nonce, []byte(plaintext), nil)
	blob := append(nonce, ct...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// OpenCredential reverses SealCredential.
func OpenCredential(passphrase, sealed string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed credential: %w", err)
	}
	key := deriveCredentialKey(passphrase)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", fmt.Errorf("init credential cipher: %w", err)
	}
	if len(blob) < aead.NonceSize() {
		return "", fmt.Errorf("sealed credential too short")
	}
	nonce, ct := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed credential: %w", err)
	}
	return string(pt), nil
}
