package engine

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Key is a recovered key stream. Bytes[i] is meaningful only when
// Resolved[i] is set.
type Key struct {
	Bytes    []byte
	Resolved []bool
}

func newKey(n int) Key {
	return Key{
		Bytes:    make([]byte, n),
		Resolved: make([]bool, n),
	}
}

// Len returns the number of key-stream positions.
func (k Key) Len() int {
	return len(k.Bytes)
}

// ResolvedCount returns the number of resolved positions.
func (k Key) ResolvedCount() int {
	n := 0
	for _, ok := range k.Resolved {
		if ok {
			n++
		}
	}
	return n
}

// Hex renders the key as two lowercase hex digits per resolved position and
// "__" per unresolved position.
func (k Key) Hex() string {
	var sb strings.Builder
	sb.Grow(2 * len(k.Bytes))
	for i, b := range k.Bytes {
		if !k.Resolved[i] {
			sb.WriteString(unresolvedHex)
			continue
		}
		sb.WriteString(hex.EncodeToString([]byte{b}))
	}
	return sb.String()
}

// ParseKey parses the output of Key.Hex.
func ParseKey(s string) (Key, error) {
	if len(s)%2 != 0 {
		return Key{}, errors.Errorf("odd key display length %d", len(s))
	}
	k := newKey(len(s) / 2)
	for i := range k.Bytes {
		pair := s[2*i : 2*i+2]
		if pair == unresolvedHex {
			continue
		}
		b, err := hex.DecodeString(pair)
		if err != nil {
			return Key{}, errors.Wrapf(err, "invalid key byte at position %d", i)
		}
		k.Bytes[i] = b[0]
		k.Resolved[i] = true
	}
	return k, nil
}
