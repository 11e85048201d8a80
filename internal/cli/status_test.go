package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pageopener/internal/storage"
)

func TestStatus_EmptyDB(t *testing.T) {
	svc, store, _ := setupTestService(t)
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, store.Path(), testNow))
	})

	assert.Contains(t, output, "pageopener status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "Pages:         0")
	assert.Contains(t, output, "Never opened:  0")
	assert.NotContains(t, output, "Last opened:")
	assert.Contains(t, output, "Schedule:      */5 * * * * (robfig parser)")
	assert.Contains(t, output, "Countdown:     0h 4m 30s")
	assert.Contains(t, output, "Theme:         light")
}

func TestStatus_WithData(t *testing.T) {
	svc, store, _ := setupTestService(t)
	seedPages(t, store, testNow)
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, store.Path(), testNow))
	})

	assert.Contains(t, output, "Pages:         2")
	assert.Contains(t, output, "Never opened:  1")
	assert.Contains(t, output, "Last opened:")
	assert.Contains(t, output, "2 hours ago")
}

func TestStatus_InvalidCron(t *testing.T) {
	svc, store, _ := setupTestService(t)
	require.NoError(t, svc.SetCronExpression(context.Background(), "nope"))
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, store.Path(), testNow))
	})
	assert.Contains(t, output, "Next run:      Invalid cron expression")
}

func TestStatus_JSONOutput(t *testing.T) {
	svc, store, _ := setupTestService(t)
	ctx := context.Background()
	seedPages(t, store, testNow)
	_, err := svc.ToggleDarkMode(ctx)
	require.NoError(t, err)
	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(ctx, svc, store.Path(), testNow))
	})

	var got statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, store.Path(), got.DatabasePath)
	assert.Equal(t, 1, got.SchemaVersion)
	assert.Equal(t, int64(2), got.TotalPages)
	assert.Equal(t, int64(1), got.NeverOpened)
	assert.NotEmpty(t, got.LastOpened)
	assert.True(t, got.DarkMode)
	assert.Equal(t, "robfig", got.Parser)
	assert.Equal(t, storage.DefaultCronExpression, got.Next.CronExpression)
	assert.True(t, got.Next.Valid)
	assert.Equal(t, "2024-06-01T12:05:00Z", got.Next.NextRun)
}

func TestStatus_ArmedNextRunIsGreen(t *testing.T) {
	svc, store, _ := setupTestService(t)
	orig := colorEnabled
	colorEnabled = func() bool { return true }
	t.Cleanup(func() { colorEnabled = orig })
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, store.Path(), testNow))
	})

	// Light theme good style.
	assert.Contains(t, output, "Next run:      \x1b[32m")
	assert.NotContains(t, output, "Invalid cron expression")
}
