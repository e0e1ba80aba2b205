package hashutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/internal/hashutil"
)

func TestChecksum(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("a.txt", []byte("hello"), 0644))
	require.NoError(t, fs.WriteFile("b.txt", []byte("hello"), 0644))
	require.NoError(t, fs.WriteFile("c.txt", []byte("other"), 0644))

	sumA, err := hashutil.Checksum(fs, "a.txt")
	require.NoError(t, err)
	sumB, err := hashutil.Checksum(fs, "b.txt")
	require.NoError(t, err)
	sumC, err := hashutil.Checksum(fs, "c.txt")
	require.NoError(t, err)

	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, sumA, sumC)
	assert.Contains(t, sumA, "sha256:")
}

func TestChecksum_Missing(t *testing.T) {
	fs := filesystem.NewMemory()
	_, err := hashutil.Checksum(fs, "missing.txt")
	assert.Error(t, err)
}
