package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pageopener/internal/storage"
)

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Contains(t, output, "pageopener 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	output := captureOutput(t, func() {
		_ = RunWithArgs("1.2.3", []string{"--version"})
	})

	assert.Equal(t, "pageopener 1.2.3", strings.TrimSpace(output))
}

func TestSubcommandsRecognized(t *testing.T) {
	for _, name := range []string{"add", "remove", "list", "cron", "theme", "next", "open", "run", "status", "purge"} {
		t.Run(name, func(t *testing.T) {
			parser, _, _ := buildParser("test")
			var found bool
			for _, c := range parser.Commands() {
				if c.Name == name {
					found = true
				}
			}
			assert.True(t, found, "subcommand %s should be registered", name)
		})
	}
}

func TestAddFlagsParsed(t *testing.T) {
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(_ goflags.Commander, _ []string) error { return nil }

	_, err := parser.ParseArgs([]string{"--json", "--db-path", "/tmp/x.db", "add", "--url", "https://example.com"})
	require.NoError(t, err)
	assert.True(t, globals.JSON)
	assert.Equal(t, "/tmp/x.db", globals.DBPath)
	assert.Equal(t, "https://example.com", cmds.Add.URL)
}

func TestCronPositionalArgsParsed(t *testing.T) {
	parser, _, cmds := buildParser("test")
	parser.CommandHandler = func(_ goflags.Commander, _ []string) error { return nil }

	_, err := parser.ParseArgs([]string{"cron", "0", "9", "*", "*", "1-5"})
	require.NoError(t, err)
	assert.Equal(t, "0 9 * * 1-5", cmds.Cron.expression())

	parser, _, cmds = buildParser("test")
	parser.CommandHandler = func(_ goflags.Commander, _ []string) error { return nil }
	_, err = parser.ParseArgs([]string{"cron", "@hourly"})
	require.NoError(t, err)
	assert.Equal(t, "@hourly", cmds.Cron.expression())
}

func TestRunFlagsParsed(t *testing.T) {
	parser, _, cmds := buildParser("test")
	parser.CommandHandler = func(_ goflags.Commander, _ []string) error { return nil }

	_, err := parser.ParseArgs([]string{"run", "--tick", "250ms", "--countdown"})
	require.NoError(t, err)
	assert.Equal(t, "250ms", cmds.Run.Tick)
	assert.True(t, cmds.Run.Countdown)
}

func TestUnknownSubcommandErrors(t *testing.T) {
	err := RunWithArgs("test", []string{"nonexistent"})
	assert.Error(t, err)
}

func TestHelpReturnsNil(t *testing.T) {
	captureOutput(t, func() {
		assert.NoError(t, RunWithArgs("test", []string{"--help"}))
	})
}

func TestEndToEnd_WithConfigFile(t *testing.T) {
	cfgPath, dbPath := writeTestConfig(t)

	output := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "add", "--url", "https://example.com"}))
	})
	assert.Contains(t, output, "Added page #1")

	output = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "--json", "list"}))
	})
	var pages []pageJSON
	require.NoError(t, json.Unmarshal([]byte(output), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, "https://example.com", pages[0].URL)
	assert.False(t, pages[0].Opened)

	// The configured launcher command is `true`, so open succeeds headless.
	output = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "open"}))
	})
	assert.Contains(t, output, "Opened #1 https://example.com")

	store, err := storage.Open(dbPath, "wal")
	require.NoError(t, err)
	defer store.Close()
	got, err := store.GetPage(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got.LastOpened)
}

func TestEndToEnd_DBPathOverridesConfig(t *testing.T) {
	cfgPath, cfgDB := writeTestConfig(t)
	override := t.TempDir() + "/override.db"

	captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "--db-path", override, "add", "--url", "https://example.com"}))
	})

	store, err := storage.Open(override, "wal")
	require.NoError(t, err)
	defer store.Close()
	pages, err := store.ListPages(context.Background())
	require.NoError(t, err)
	assert.Len(t, pages, 1)

	other, err := storage.Open(cfgDB, "wal")
	require.NoError(t, err)
	defer other.Close()
	pages, err = other.ListPages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestMissingConfigFileErrors(t *testing.T) {
	err := RunWithArgs("test", []string{"--config", t.TempDir() + "/missing.yaml", "list"})
	assert.Error(t, err)
}

func TestInvalidDefaultConfigErrors(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "pageopener")
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := "scheduler:\n  tick: 1x\nlauncher:\n  command: firefox-private\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	_, err := loadConfig(&GlobalFlags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler.tick")

	err = RunWithArgs("test", []string{"list"})
	assert.Error(t, err)
}

func TestDefaultConfigCreatedOnFirstUse(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig(&GlobalFlags{})
	require.NoError(t, err)
	assert.Equal(t, "robfig", cfg.Scheduler.Parser)

	_, err = os.Stat(filepath.Join(home, ".config", "pageopener", "config.yaml"))
	assert.NoError(t, err)
}
