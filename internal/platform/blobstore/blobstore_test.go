package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalGet(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2026", "08"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2026", "08", "f.bin"), []byte("payload"), 0o644))

	l := NewLocal(root)
	data, err := l.Get(context.Background(), "2026/08/f.bin")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func TestLocalGet_RejectsTraversal(t *testing.T) {
	l := NewLocal(t.TempDir())

	_, err := l.Get(context.Background(), "../etc/passwd")
	require.Error(t, err)
	_, err = l.Get(context.Background(), "/etc/passwd")
	require.Error(t, err)
}

func TestLocalGet_Missing(t *testing.T) {
	l := NewLocal(t.TempDir())

	_, err := l.Get(context.Background(), "nope.bin")
	require.Error(t, err)
}

func TestHashHex(t *testing.T) {
	require.Equal(t,
		"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		HashHex([]byte("hello world")))
}
