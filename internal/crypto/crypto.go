// Package crypto provides field-level encryption for monetary values stored
// at rest. Values are encrypted as fernet tokens before they reach the
// database and decrypted when operations are loaded for the tax engine.
package crypto

import (
	"fmt"

	"github.com/fernet/fernet-go"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
)

// Cipher encrypts and decrypts individual field values with a fernet key.
type Cipher struct {
	keys []*fernet.Key
}

// NewCipher creates a Cipher from a base64-encoded fernet key.
func NewCipher(encodedKey string) (*Cipher, error) {
	keys, err := fernet.DecodeKeys(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Cipher{keys: keys}, nil
}

// GenerateKey returns a new base64-encoded fernet key.
// Used for development setups where no key is configured.
func GenerateKey() (string, error) {
	key := new(fernet.Key)
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate fernet key: %w", err)
	}
	return key.Encode(), nil
}

// EncryptString encrypts a plaintext field value into a fernet token.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt field: %w", err)
	}
	return string(token), nil
}

// DecryptString decrypts a fernet token back into its plaintext value.
// A TTL of zero disables token expiry: stored fields stay valid indefinitely.
func (c *Cipher) DecryptString(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, c.keys)
	if plaintext == nil {
		return "", apperrors.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// EncryptDecimal encrypts a decimal field value.
func (c *Cipher) EncryptDecimal(value decimal.Decimal) (string, error) {
	return c.EncryptString(value.String())
}

// DecryptDecimal decrypts a fernet token into a decimal value.
func (c *Cipher) DecryptDecimal(token string) (decimal.Decimal, error) {
	plaintext, err := c.DecryptString(token)
	if err != nil {
		return decimal.Zero, err
	}
	value, err := decimal.NewFromString(plaintext)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decrypted field is not a number: %w", err)
	}
	return value, nil
}
