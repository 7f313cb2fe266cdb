package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	first, err := Generate()
	require.NoError(t, err)
	second, err := Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, TokenPrefix))
	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)
	digest := Digest(secret)

	tests := []struct {
		name      string
		presented string
		digest    string
		want      bool
	}{
		{name: "matching secret", presented: secret, digest: digest, want: true},
		{name: "wrong secret", presented: TokenPrefix + "nope", digest: digest, want: false},
		{name: "missing prefix", presented: strings.TrimPrefix(secret, TokenPrefix), digest: digest, want: false},
		{name: "empty secret", presented: "", digest: digest, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.presented, tt.digest))
		})
	}
}

func TestDigest_Stable(t *testing.T) {
	assert.Equal(t, Digest("avs_fixed"), Digest("avs_fixed"))
	assert.Len(t, Digest("avs_fixed"), 64)
}
