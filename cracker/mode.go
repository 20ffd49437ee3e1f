package cracker

import (
	"io"

	"github.com/liftbridge-io/mtpcrack/cracker/engine"
)

// Mode selects what a run prints.
type Mode int

const (
	// ModePlaintext cracks the corpus and prints one recovered plaintext per
	// message.
	ModePlaintext Mode = iota

	// ModeKey cracks the corpus and prints the recovered key.
	ModeKey

	// ModeDecrypt applies a known key and prints one plaintext per message.
	ModeDecrypt
)

func (m Mode) String() string {
	switch m {
	case ModePlaintext:
		return "plaintext"
	case ModeKey:
		return "key"
	case ModeDecrypt:
		return "decrypt"
	default:
		return "unknown"
	}
}

// cracks reports whether the mode runs the engine.
func (m Mode) cracks() bool {
	return m == ModePlaintext || m == ModeKey
}

// Output is the computed result of a run, tagged with the mode that decides
// how it is presented.
type Output struct {
	Mode       Mode
	Key        engine.Key
	Plaintexts [][]byte
}

// WriteTo presents the output according to its mode.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	switch o.Mode {
	case ModeKey:
		return writeKey(w, o.Key)
	default:
		return writeLines(w, o.Plaintexts)
	}
}
