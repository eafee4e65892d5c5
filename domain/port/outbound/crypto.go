package outbound

// CryptoService provides symmetric encryption for data at rest.
type CryptoService interface {
	// Encrypt seals data with the given key, returning ciphertext and nonce.
	Encrypt(data []byte, key [32]byte) (encrypted []byte, nonce []byte, err error)

	// Decrypt opens ciphertext produced by Encrypt.
	Decrypt(encrypted []byte, nonce []byte, key [32]byte) ([]byte, error)

	// DeriveKey derives a stable 32-byte key from a machine identifier.
	DeriveKey(machineID string) [32]byte
}

// MachineIDService resolves a stable identifier for the host machine.
type MachineIDService interface {
	GetMachineID() (string, error)
}
