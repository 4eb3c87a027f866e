package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Length(t *testing.T) {
	id, err := Generate(12)
	require.NoError(t, err)
	assert.Len(t, id, 12)
}

func TestGenerate_DefaultLengthOnZero(t *testing.T) {
	id, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, id, DefaultLength)
}

func TestGenerate_Alphabet(t *testing.T) {
	id, err := Generate(64)
	require.NoError(t, err)
	for _, r := range id {
		assert.Contains(t, alphabet, string(r))
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	id, err := GenerateWithPrefix(PrefixOrganization, 12)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "org_"))
	assert.Len(t, id, len("org_")+12)
}

func TestParsePrefixedID(t *testing.T) {
	prefix, short, err := ParsePrefixedID("sub_xK9mP2vL3nQa")
	require.NoError(t, err)
	assert.Equal(t, "sub", prefix)
	assert.Equal(t, "xK9mP2vL3nQa", short)
}

func TestParsePrefixedID_Invalid(t *testing.T) {
	_, _, err := ParsePrefixedID("no-separator")
	assert.Error(t, err)
}

func TestValidatePrefix(t *testing.T) {
	assert.NoError(t, ValidatePrefix("org_abc123", PrefixOrganization))
	assert.Error(t, ValidatePrefix("sub_abc123", PrefixOrganization))
	assert.Error(t, ValidatePrefix("garbage", PrefixOrganization))
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := MustGenerate(DefaultLength)
		require.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}
