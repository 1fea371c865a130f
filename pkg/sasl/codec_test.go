package sasl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierCodec(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"zero bytes", []byte{0x00, 0x00, 0x00}},
		{"binary", []byte{0xff, 0x00, 0xde, 0xad, 0xbe, 0xef}},
		{"text", []byte("token identifier payload")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeIdentifier(tt.input)
			decoded, err := DecodeIdentifier(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestDecodeIdentifierRejectsGarbage(t *testing.T) {
	_, err := DecodeIdentifier("not base64!!!")
	require.Error(t, err)
}

func TestEncodePassword(t *testing.T) {
	t.Run("encodes like the identifier codec", func(t *testing.T) {
		secret := []byte{0x01, 0x02, 0x03}
		assert.Equal(t, EncodeIdentifier(secret), string(EncodePassword(secret)))
	})

	t.Run("returns a fresh mutable buffer", func(t *testing.T) {
		secret := []byte("shared secret")
		first := EncodePassword(secret)
		second := EncodePassword(secret)
		require.Equal(t, first, second)

		// The caller zeroes the password when the round is done; that must
		// not corrupt anything but its own copy.
		for i := range first {
			first[i] = 0
		}
		assert.Equal(t, string(second), EncodeIdentifier(secret))
	})

	t.Run("empty secret", func(t *testing.T) {
		assert.Empty(t, EncodePassword(nil))
	})
}
