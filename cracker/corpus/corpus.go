package corpus

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MaxLineBytes is the longest hex line Load accepts.
const MaxLineBytes = 16 * 1024 * 1024

// Message is the ciphertext of a single input line.
type Message []byte

// Corpus is an ordered set of messages encrypted under the same key stream.
// Output produced from a Corpus is aligned with its order.
type Corpus []Message

// MaxLen returns the length of the longest message, which is also the number
// of key-stream columns.
func (c Corpus) MaxLen() int {
	max := 0
	for _, m := range c {
		if len(m) > max {
			max = len(m)
		}
	}
	return max
}

// Size returns the total number of ciphertext bytes in the corpus.
func (c Corpus) Size() int {
	n := 0
	for _, m := range c {
		n += len(m)
	}
	return n
}

// FormatError is returned when a line is not valid hex.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying decoding error. errors.Cause stops at the
// FormatError itself.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err was caused by a malformed line.
func IsFormatError(err error) bool {
	_, ok := errors.Cause(err).(*FormatError)
	return ok
}

// Load decodes one hex-encoded message per line. A single bad line fails the
// whole load since column alignment depends on every line.
func Load(r io.Reader) (Corpus, error) {
	var (
		corpus  Corpus
		scanner = bufio.NewScanner(r)
		line    int
	)
	scanner.Buffer(make([]byte, 64*1024), MaxLineBytes)
	for scanner.Scan() {
		line++
		text := bytes.TrimRight(scanner.Bytes(), "\r\n")
		msg := make(Message, hex.DecodedLen(len(text)))
		if _, err := hex.Decode(msg, text); err != nil {
			return nil, &FormatError{Line: line, Err: err}
		}
		corpus = append(corpus, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read ciphertexts")
	}
	return corpus, nil
}

// LoadFile opens the named file and loads a Corpus from it.
func LoadFile(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return Load(f)
}

// Encode writes the corpus in the line format Load reads.
func Encode(w io.Writer, c Corpus) error {
	bw := bufio.NewWriter(w)
	for _, m := range c {
		if _, err := bw.WriteString(hex.EncodeToString(m)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
