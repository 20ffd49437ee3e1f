package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftbridge-io/mtpcrack/cracker/engine"
)

const testMasterKey = "t7w!z%C*F-JaNcRf"

func newTestHandler(t *testing.T) *LocalHandler {
	h, err := NewHandler([]byte(testMasterKey))
	require.NoError(t, err)
	return h
}

func TestNewLocalHandler(t *testing.T) {
	t.Setenv(MasterKeyEnv, "")
	_, err := NewLocalHandler()
	require.Error(t, err)

	t.Setenv(MasterKeyEnv, "too short")
	_, err = NewLocalHandler()
	require.Error(t, err)

	t.Setenv(MasterKeyEnv, testMasterKey)
	h, err := NewLocalHandler()
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestNewHandlerKeySizes(t *testing.T) {
	cases := []struct {
		size int
		ok   bool
	}{
		{16, true},
		{24, false},
		{32, true},
	}
	for _, c := range cases {
		_, err := NewHandler(make([]byte, c.size))
		if c.ok {
			require.NoError(t, err, "size %d", c.size)
		} else {
			require.Error(t, err, "size %d", c.size)
		}
	}
}

// Ensure that the data encryption process can be reversed.
func TestSealRead(t *testing.T) {
	h := newTestHandler(t)
	plaintext := []byte("1337__cafe")

	sealed, err := h.Seal(plaintext)
	require.NoError(t, err)

	// decompose key and cipher text
	keySize := int(sealed[0])
	wrappedKey := sealed[1 : keySize+1]
	require.NotEmpty(t, wrappedKey)
	require.NotContains(t, string(sealed), string(plaintext))

	got, err := h.Read(sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)

	// A fresh data key is used every time.
	again, err := h.Seal(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, sealed, again)
}

func TestReadRejectsTampering(t *testing.T) {
	h := newTestHandler(t)
	sealed, err := h.Seal([]byte("secret"))
	require.NoError(t, err)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0x01
	_, err = h.Read(tampered)
	require.Error(t, err)

	_, err = h.Read(nil)
	require.Error(t, err)

	_, err = h.Read(sealed[:10])
	require.Error(t, err)

	other, err := NewHandler([]byte("another-16b-key!"))
	require.NoError(t, err)
	_, err = other.Read(sealed)
	require.Error(t, err)
}

func TestSaveLoadKey(t *testing.T) {
	h := newTestHandler(t)
	path := filepath.Join(t.TempDir(), "key.sealed")
	k := engine.Key{
		Bytes:    []byte{0x13, 0x00, 0x37},
		Resolved: []bool{true, false, true},
	}

	require.NoError(t, SaveKey(h, path, k))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "13__37")

	got, err := LoadKey(h, path)
	require.NoError(t, err)
	require.Equal(t, k, got)
}

func TestLoadKeyMissing(t *testing.T) {
	_, err := LoadKey(newTestHandler(t), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
