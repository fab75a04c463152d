package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHasher_HashContent(t *testing.T) {
	hasher := NewFileHasher()

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "empty content",
			content:  []byte(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple content",
			content:  []byte("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasher.HashContent(tt.content))
			assert.Equal(t, tt.expected, hasher.HashString(string(tt.content)))
		})
	}
}

func TestFileHasher_HashFile(t *testing.T) {
	hasher := NewFileHasher()
	path := filepath.Join(t.TempDir(), "main.syl")
	require.NoError(t, os.WriteFile(path, []byte("create a = 1#"), 0644))

	hash, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hasher.HashString("create a = 1#"), hash)

	_, err = hasher.HashFile(filepath.Join(t.TempDir(), "missing.syl"))
	assert.Error(t, err)
}

func TestFileHasher_HashSource(t *testing.T) {
	hasher := NewFileHasher()

	js := hasher.HashSource("javascript", "create a = 1#")
	assert.Len(t, js, 64)
	assert.Equal(t, js, hasher.HashSource("javascript", "create a = 1#"))
	assert.NotEqual(t, js, hasher.HashSource("other", "create a = 1#"))
	assert.NotEqual(t, js, hasher.HashSource("javascript", "create a = 2#"))
	assert.NotEqual(t, hasher.HashSource("ab", "c"), hasher.HashSource("a", "bc"))
}
