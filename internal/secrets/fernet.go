// Package secrets encrypts broker notes attached to ledger entries. The
// payloads never leave the database in plaintext.
package secrets

import (
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
)

// Encryptor wraps a fernet key for encrypting and decrypting transaction
// note payloads.
type Encryptor struct {
	key *fernet.Key
}

// NewEncryptor parses a base64 fernet key from configuration.
func NewEncryptor(encodedKey string) (*Encryptor, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Encryptor{key: key}, nil
}

// Encrypt returns the fernet token for a plaintext payload.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), e.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and opens a fernet token. Tokens do not expire; the
// zero TTL disables the age check.
func (e *Encryptor) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0*time.Second, []*fernet.Key{e.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt payload: invalid token")
	}
	return string(plaintext), nil
}
