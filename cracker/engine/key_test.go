package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyHex(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{Key{}, ""},
		{
			Key{Bytes: []byte{0x00, 0xab, 0x0f}, Resolved: []bool{true, true, true}},
			"00ab0f",
		},
		{
			Key{Bytes: []byte{0x01, 0xff, 0x02}, Resolved: []bool{true, false, true}},
			"01__02",
		},
		{
			Key{Bytes: []byte{0x00, 0x00}, Resolved: []bool{false, false}},
			"____",
		},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.key.Hex())
		require.Len(t, c.key.Hex(), 2*c.key.Len())
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("01__ff")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0xff}, k.Bytes)
	require.Equal(t, []bool{true, false, true}, k.Resolved)
	require.Equal(t, 2, k.ResolvedCount())
	require.Equal(t, "01__ff", k.Hex())

	_, err = ParseKey("012")
	require.Error(t, err)

	_, err = ParseKey("zz")
	require.Error(t, err)
}
