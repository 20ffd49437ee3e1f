// Package xorcipher applies a known repeating XOR key to a corpus.
package xorcipher

import (
	"crypto/cipher"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/liftbridge-io/mtpcrack/cracker/corpus"
)

// ErrEmptyKey is returned when a key has no bytes.
var ErrEmptyKey = errors.New("key must not be empty")

type xorCipher struct {
	key []byte
	pos int
}

// NewCipher returns a repeating XOR key stream starting at key offset 0.
// Successive calls to XORKeyStream continue where the previous call stopped.
func NewCipher(key []byte) (cipher.Stream, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return &xorCipher{key: key}, nil
}

// XORKeyStream panics if dst is smaller than src.
func (x *xorCipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("xorcipher: output smaller than input")
	}
	for i := range src {
		dst[i] = src[i] ^ x.key[x.pos]
		x.pos++
		if x.pos == len(x.key) {
			x.pos = 0
		}
	}
}

// Apply XORs every message with the key, restarting the key stream at the
// start of each message. The corpus is not modified.
func Apply(c corpus.Corpus, key []byte) ([][]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	res := make([][]byte, len(c))
	for i, msg := range c {
		stream, err := NewCipher(key)
		if err != nil {
			return nil, err
		}
		res[i] = make([]byte, len(msg))
		stream.XORKeyStream(res[i], msg)
	}
	return res, nil
}

// ParseKey decodes a hex key as given on the command line.
func ParseKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimRight(s, "\r\n"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid key")
	}
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return key, nil
}
