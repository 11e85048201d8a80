package cli

import (
	"bytes"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pageopener/internal/app"
	"github.com/runnerr0/pageopener/internal/launcher"
	"github.com/runnerr0/pageopener/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestService opens a migrated temp-file store behind a Service whose
// opener only records URLs.
func setupTestService(t *testing.T) (*app.Service, *storage.SQLiteStore, *launcher.Recorder) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "cli.db"), "wal")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rec := &launcher.Recorder{}
	svc := app.NewService(store, rec, app.WithRand(rand.New(rand.NewPCG(11, 12))))
	return svc, store, rec
}

// writeTestConfig writes a config file pointing storage at a temp dir and
// a launcher command that succeeds without opening anything.
func writeTestConfig(t *testing.T) (cfgPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "config.yaml")
	content := "storage:\n  path: " + dir + "\n  sqlite_file: test.db\n" +
		"launcher:\n  command: \"true\"\n" +
		"logging:\n  console: false\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath, filepath.Join(dir, "test.db")
}
