package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDCodecRoundTrip(t *testing.T) {
	codec, err := NewIDCodec("rahasia-test")
	require.NoError(t, err)

	for _, id := range []uint{1, 42, 999999, 1<<32 + 7} {
		token, err := codec.Encrypt(id)
		require.NoError(t, err)

		got, err := codec.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestIDCodecTokensAreNonDeterministic(t *testing.T) {
	codec, err := NewIDCodec("rahasia-test")
	require.NoError(t, err)

	first, err := codec.Encrypt(7)
	require.NoError(t, err)
	second, err := codec.Encrypt(7)
	require.NoError(t, err)

	// Nonce acak: id sama, token beda, dua-duanya tetap valid.
	assert.NotEqual(t, first, second)

	got, err := codec.Decrypt(second)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got)
}

func TestIDCodecRejectsTamperedToken(t *testing.T) {
	codec, err := NewIDCodec("rahasia-test")
	require.NoError(t, err)

	token, err := codec.Encrypt(123)
	require.NoError(t, err)

	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	_, err = codec.Decrypt(string(tampered))
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestIDCodecRejectsGarbage(t *testing.T) {
	codec, err := NewIDCodec("rahasia-test")
	require.NoError(t, err)

	for _, token := range []string{"", "bukan base64 !!!", "YWJj", "12345"} {
		_, err := codec.Decrypt(token)
		assert.ErrorIs(t, err, ErrInvalidIDToken, "token %q", token)
	}
}

func TestIDCodecDifferentSecrets(t *testing.T) {
	a, err := NewIDCodec("secret-a")
	require.NoError(t, err)
	b, err := NewIDCodec("secret-b")
	require.NoError(t, err)

	token, err := a.Encrypt(55)
	require.NoError(t, err)

	_, err = b.Decrypt(token)
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestNewIDCodecEmptySecret(t *testing.T) {
	_, err := NewIDCodec("")
	assert.Error(t, err)
}
