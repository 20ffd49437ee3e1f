package cracker

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/liftbridge-io/mtpcrack/cracker/engine"
)

// RenderText decodes b as UTF-8, replacing every invalid byte with U+FFFD.
func RenderText(b []byte) string {
	text, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(text)
}

func writeLines(w io.Writer, lines [][]byte) (int64, error) {
	var n int64
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		m, err := bw.WriteString(RenderText(line) + "\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

func writeKey(w io.Writer, k engine.Key) (int64, error) {
	m, err := io.WriteString(w, k.Hex()+"\n")
	return int64(m), err
}
