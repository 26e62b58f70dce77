package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "poster.png")
	require.NoError(t, WriteFile(path, []byte("png")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "png", string(b))
}
