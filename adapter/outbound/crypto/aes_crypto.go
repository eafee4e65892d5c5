package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

const keyDerivationIterations = 100_000

// salt for machine-bound key derivation; the secret input is the machine ID
var keyDerivationSalt = []byte("goadminpanel-credential-cache")

type AesCryptoService struct{}

func NewAESCryptoService() outbound.CryptoService {
	return &AesCryptoService{}
}

func (c *AesCryptoService) Encrypt(data []byte, key [32]byte) (encrypted []byte, nonce []byte, err error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonceBytes := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, nil, err
	}

	ciphertext := gcm.Seal(nil, nonceBytes, data, nil)
	return ciphertext, nonceBytes, nil
}

func (c *AesCryptoService) Decrypt(encrypted []byte, nonce []byte, key [32]byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, encrypted, nil)
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

func (c *AesCryptoService) DeriveKey(machineID string) [32]byte {
	// derive a 32-byte key bound to this machine
	derived := pbkdf2.Key([]byte(machineID), keyDerivationSalt, keyDerivationIterations, 32, sha256.New)

	var key [32]byte
	copy(key[:], derived)
	return key
}
