// Package testutil holds helpers shared by tests that work on files.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// WriteFiles writes files into a fresh temporary directory and returns its
// path. Keys are slash-separated paths relative to that directory; missing
// subdirectories are created.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// Context returns a background context whose logger discards everything.
func Context() context.Context {
	return ctxlog.Discard(context.Background())
}
