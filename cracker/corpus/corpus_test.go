package corpus

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Corpus
	}{
		{
			"empty input",
			"",
			nil,
		},
		{
			"single line no terminator",
			"48656c6c6f",
			Corpus{Message("Hello")},
		},
		{
			"crlf terminators stripped",
			"00ff\r\n0102\r\n",
			Corpus{{0x00, 0xff}, {0x01, 0x02}},
		},
		{
			"empty line is an empty message",
			"41\n\n4243\n",
			Corpus{{0x41}, {}, {0x42, 0x43}},
		},
		{
			"uppercase hex",
			"ABCDEF\n",
			Corpus{{0xab, 0xcd, 0xef}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Load(strings.NewReader(c.input))
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

// Ensure a bad line fails the whole load and reports its line number.
func TestLoadFormatError(t *testing.T) {
	cases := []struct {
		input string
		line  int
	}{
		{"zz\n", 1},
		{"00\n0\n", 2},
		{"00\n01\n02 03\n", 3},
	}
	for _, c := range cases {
		got, err := Load(strings.NewReader(c.input))
		require.Error(t, err)
		require.Nil(t, got)
		require.True(t, IsFormatError(err))
		fe, ok := err.(*FormatError)
		require.True(t, ok)
		require.Equal(t, c.line, fe.Line)
	}
}

// Ensure a format error is still recognised after being wrapped and still
// exposes the decoding error beneath it.
func TestFormatErrorChain(t *testing.T) {
	_, err := Load(strings.NewReader("zz\n"))
	require.Error(t, err)

	wrapped := errors.Wrap(err, "failed to load corpus")
	require.True(t, IsFormatError(wrapped))

	fe, ok := errors.Cause(wrapped).(*FormatError)
	require.True(t, ok)
	require.Equal(t, 1, fe.Line)

	var invalid hex.InvalidByteError
	require.True(t, errors.As(wrapped, &invalid))
	require.Equal(t, hex.InvalidByteError('z'), invalid)

	require.False(t, IsFormatError(errors.New("failed to open")))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	require.False(t, IsFormatError(err))
	require.Contains(t, err.Error(), "failed to open")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ciphertexts.txt")
	require.NoError(t, os.WriteFile(path, []byte("0102\n03\n"), 0644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, Corpus{{1, 2}, {3}}, got)
}

func TestEncodeLoad(t *testing.T) {
	in := Corpus{[]byte("many"), {}, []byte("time pad")}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))
	require.Equal(t, "6d616e79\n\n74696d6520706164\n", buf.String())

	out, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestMaxLenAndSize(t *testing.T) {
	cases := []struct {
		corpus Corpus
		max    int
		size   int
	}{
		{nil, 0, 0},
		{Corpus{{}}, 0, 0},
		{Corpus{{1}, {1, 2, 3}, {1, 2}}, 3, 6},
	}
	for _, c := range cases {
		require.Equal(t, c.max, c.corpus.MaxLen())
		require.Equal(t, c.size, c.corpus.Size())
	}
}
