// Package keystore keeps recovered keys sealed at rest.
//
// A random AES-GCM data key encrypts the payload and is itself wrapped with
// a master key using AES-KWP. The master key is read from the
// LOCAL_MASTER_KEY environment variable and must be 16 or 32 bytes long.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"os"

	"github.com/google/tink/go/kwp/subtle"
	"github.com/pkg/errors"
)

const (
	// DataKeyLength selects AES-256 for the data key.
	DataKeyLength int = 32

	// MasterKeyEnv names the environment variable holding the master key.
	MasterKeyEnv = "LOCAL_MASTER_KEY"
)

// Handler seals and opens payloads.
type Handler interface {
	Seal([]byte) ([]byte, error)
	Read([]byte) ([]byte, error)
}

// LocalHandler wraps data keys with a locally held master key.
type LocalHandler struct {
	keyWrapper *subtle.KWP
}

// NewLocalHandler returns a handler using the master key from the
// environment.
func NewLocalHandler() (*LocalHandler, error) {
	masterKey := os.Getenv(MasterKeyEnv)
	if masterKey == "" {
		return nil, errors.Errorf("%s is not set", MasterKeyEnv)
	}
	return NewHandler([]byte(masterKey))
}

// NewHandler returns a handler using the given master key.
func NewHandler(masterKey []byte) (*LocalHandler, error) {
	kwp, err := subtle.NewKWP(masterKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid master key")
	}
	return &LocalHandler{keyWrapper: kwp}, nil
}

func generateDataKey() ([]byte, error) {
	key := make([]byte, DataKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(dataKey []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(dataKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts data under a fresh data key. The result is laid out as
//
//	| key size | wrapped key ... | nonce ... | ciphertext ... |
//
// where key size is a single byte.
func (h *LocalHandler) Seal(data []byte) ([]byte, error) {
	dataKey, err := generateDataKey()
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(dataKey)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := gcm.Seal(nonce, nonce, data, nil)

	wrappedKey, err := h.keyWrapper.Wrap(dataKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to wrap data key")
	}

	sealed := make([]byte, 0, 1+len(wrappedKey)+len(ciphertext))
	sealed = append(sealed, byte(len(wrappedKey)))
	sealed = append(sealed, wrappedKey...)
	sealed = append(sealed, ciphertext...)
	return sealed, nil
}

// Read reverses Seal.
func (h *LocalHandler) Read(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, errors.New("sealed data is empty")
	}
	keyEnd := 1 + int(sealed[0])
	if len(sealed) < keyEnd {
		return nil, errors.New("sealed data is truncated")
	}
	dataKey, err := h.keyWrapper.Unwrap(sealed[1:keyEnd])
	if err != nil {
		return nil, errors.Wrap(err, "failed to unwrap data key")
	}
	gcm, err := newGCM(dataKey)
	if err != nil {
		return nil, err
	}
	ciphertext := sealed[keyEnd:]
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("sealed data is truncated")
	}
	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt sealed data")
	}
	return plaintext, nil
}
