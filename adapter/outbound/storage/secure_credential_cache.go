package storage

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// EncryptedCredentialFile is the on-disk format for the cached session
// credential. The payload is AES-GCM sealed with a machine-bound key and
// checksum-guarded, so the file is useless on another host.
type EncryptedCredentialFile struct {
	Version  uint32   `json:"version"`
	Nonce    []byte   `json:"nonce"`
	Data     []byte   `json:"data"`
	Checksum [32]byte `json:"checksum"`
}

type secureCredentialCache struct {
	filePath  string
	crypto    outbound.CryptoService
	machineID outbound.MachineIDService
	logger    outbound.Logger
	key       [32]byte
}

func NewSecureCredentialCache(
	filePath string,
	crypto outbound.CryptoService,
	machineID outbound.MachineIDService,
	logger outbound.Logger,
) (outbound.CredentialCache, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create credential cache directory: %w", err)
	}

	// machine ID based cipher key
	id, err := machineID.GetMachineID()
	if err != nil {
		return nil, err
	}

	key := crypto.DeriveKey(id)

	return &secureCredentialCache{
		filePath:  filePath,
		crypto:    crypto,
		machineID: machineID,
		logger:    logger,
		key:       key,
	}, nil
}

func (c *secureCredentialCache) Save(credential string) error {
	c.logger.Debug("Saving session credential cache", "path", c.filePath)

	encrypted, nonce, err := c.crypto.Encrypt([]byte(credential), c.key)
	if err != nil {
		return err
	}

	fileData := EncryptedCredentialFile{
		Version:  1,
		Nonce:    nonce,
		Data:     encrypted,
		Checksum: sha256.Sum256(encrypted),
	}

	fileJSON, err := json.Marshal(fileData)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filePath, fileJSON, 0600)
}

func (c *secureCredentialCache) Load() (string, error) {
	fileData, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		return "", model.ErrCredentialCacheNotFound
	}
	if err != nil {
		return "", err
	}

	var encFile EncryptedCredentialFile
	if err := json.Unmarshal(fileData, &encFile); err != nil {
		return "", model.ErrCredentialCacheCorrupted
	}

	expectedChecksum := sha256.Sum256(encFile.Data)
	if expectedChecksum != encFile.Checksum {
		return "", model.ErrInvalidChecksum
	}

	plaintext, err := c.crypto.Decrypt(encFile.Data, encFile.Nonce, c.key)
	if err != nil {
		// wrong machine or tampered file
		return "", model.ErrCredentialCacheCorrupted
	}

	return string(plaintext), nil
}

func (c *secureCredentialCache) Clear() error {
	err := os.Remove(c.filePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
