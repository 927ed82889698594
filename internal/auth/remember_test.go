package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewRememberCodecRejectsShortSecret(t *testing.T) {
	_, err := NewRememberCodec("short")
	assert.Error(t, err)
}

func TestRememberRoundTrip(t *testing.T) {
	codec, err := NewRememberCodec(testSecret)
	require.NoError(t, err)

	value := codec.Issue("alice@example.com")

	email, ok := codec.Decode(value)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", email)
}

func TestRememberEmailWithHyphens(t *testing.T) {
	codec, err := NewRememberCodec(testSecret)
	require.NoError(t, err)

	// Only the first separator is structural.
	value := codec.Issue("mary-jane@some-host.example")

	email, ok := codec.Decode(value)
	require.True(t, ok)
	assert.Equal(t, "mary-jane@some-host.example", email)
}

func TestRememberDecodeRejectsTampering(t *testing.T) {
	codec, err := NewRememberCodec(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{"no separator", "notavalidcookie"},
		{"empty signature", "-alice@example.com"},
		{"wrong signature", codec.Sign("bob@example.com") + "-alice@example.com"},
		{"swapped email", codec.Issue("alice@example.com") + "x"},
		{"empty value", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := codec.Decode(tt.value)
			assert.False(t, ok)
		})
	}
}

func TestRememberDifferentSecretsDisagree(t *testing.T) {
	a, err := NewRememberCodec(testSecret)
	require.NoError(t, err)
	b, err := NewRememberCodec("another-secret-entirely-here")
	require.NoError(t, err)

	_, ok := b.Decode(a.Issue("alice@example.com"))
	assert.False(t, ok)
}
