package keystore

import (
	"bytes"
	"io/ioutil"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"

	"github.com/liftbridge-io/mtpcrack/cracker/engine"
)

// SaveKey seals the key display of k and atomically writes it to path.
func SaveKey(h Handler, path string, k engine.Key) error {
	sealed, err := h.Seal([]byte(k.Hex()))
	if err != nil {
		return errors.Wrap(err, "failed to seal key")
	}
	if err := atomic.WriteFile(path, bytes.NewReader(sealed)); err != nil {
		return errors.Wrapf(err, "failed to write key to %s", path)
	}
	return nil
}

// LoadKey reads a key written by SaveKey.
func LoadKey(h Handler, path string) (engine.Key, error) {
	sealed, err := ioutil.ReadFile(path)
	if err != nil {
		return engine.Key{}, errors.Wrapf(err, "failed to read key from %s", path)
	}
	display, err := h.Read(sealed)
	if err != nil {
		return engine.Key{}, err
	}
	return engine.ParseKey(string(display))
}
