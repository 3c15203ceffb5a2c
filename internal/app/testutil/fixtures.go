package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"whisper-batch/internal/app/repository"
)

// WAVHeader is enough of a RIFF header for files that never reach a real decoder.
var WAVHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

// WriteAudioFiles creates each relative name under root with a WAV header.
func WriteAudioFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, WAVHeader, 0o644))
	}
}

// NewTestHistory opens an in-memory sqlite history closed with the test.
func NewTestHistory(t *testing.T) repository.HistoryDAO {
	t.Helper()
	dao, err := repository.OpenHistory("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dao.Close() })
	return dao
}
