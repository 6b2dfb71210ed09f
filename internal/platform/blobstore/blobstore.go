package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads file payloads awaiting settlement. The settlement pipeline
// consumes this interface; tests substitute an in-memory implementation.
type Store interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Local serves blobs from a directory on disk.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Get loads the payload for ref. Refs are relative paths under the blob
// root; traversal outside the root is rejected.
func (l *Local) Get(_ context.Context, ref string) ([]byte, error) {
	clean := filepath.Clean(ref)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid blob ref: %s", ref)
	}
	data, err := os.ReadFile(filepath.Join(l.root, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", ref, err)
	}
	return data, nil
}

// HashHex returns the hex sha256 digest of data.
func HashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
