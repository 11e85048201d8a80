package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pageopener/internal/storage"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 30, 0, time.UTC)

func TestCron_ShowsDefault(t *testing.T) {
	svc, _, _ := setupTestService(t)
	cmd := &CronCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})
	assert.Contains(t, output, "Cron expression: "+storage.DefaultCronExpression)
	assert.NotContains(t, output, "Invalid")
}

func TestCron_SetsExpression(t *testing.T) {
	svc, store, _ := setupTestService(t)
	cmd := &CronCommand{globals: &GlobalFlags{JSON: true}}
	cmd.Args.Expression = []string{"0", "9", "*", "*", "1-5"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "0 9 * * 1-5", got["cron_expression"])
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, true, got["updated"])
	assert.Equal(t, "2024-06-03T09:00:00Z", got["next_run"])

	st, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "0 9 * * 1-5", st.CronExpression)
}

func TestCron_InvalidIsStoredAndReported(t *testing.T) {
	svc, store, _ := setupTestService(t)
	cmd := &CronCommand{globals: &GlobalFlags{}}
	cmd.Args.Expression = []string{"every morning"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})
	assert.Contains(t, output, "Cron expression set to every morning")
	assert.Contains(t, output, "Invalid cron expression")

	st, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "every morning", st.CronExpression)
}

func TestTheme_TogglesAndForces(t *testing.T) {
	svc, store, _ := setupTestService(t)
	ctx := context.Background()

	output := captureOutput(t, func() {
		require.NoError(t, (&ThemeCommand{globals: &GlobalFlags{}}).executeWithService(ctx, svc))
	})
	assert.Contains(t, output, "Theme: dark")

	output = captureOutput(t, func() {
		require.NoError(t, (&ThemeCommand{globals: &GlobalFlags{}}).executeWithService(ctx, svc))
	})
	assert.Contains(t, output, "Theme: light")

	output = captureOutput(t, func() {
		require.NoError(t, (&ThemeCommand{Dark: true, globals: &GlobalFlags{JSON: true}}).executeWithService(ctx, svc))
	})
	assert.JSONEq(t, `{"dark_mode": true}`, output)

	captureOutput(t, func() {
		require.NoError(t, (&ThemeCommand{Dark: true, globals: &GlobalFlags{}}).executeWithService(ctx, svc))
	})
	st, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, st.DarkMode, "--dark is idempotent")
}

func TestTheme_DarkAndLightConflict(t *testing.T) {
	err := RunWithArgs("test", []string{"theme", "--dark", "--light"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestNext_HumanOutput(t *testing.T) {
	svc, _, _ := setupTestService(t)
	cmd := &NextCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})
	assert.Contains(t, output, "Next run: ")
	assert.Contains(t, output, "Time until next run: 0h 4m 30s")
}

func TestNext_JSONOutput(t *testing.T) {
	svc, _, _ := setupTestService(t)
	cmd := &NextCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})

	var got nextJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, nextJSON{
		CronExpression: storage.DefaultCronExpression,
		Valid:          true,
		NextRun:        "2024-06-01T12:05:00Z",
		Countdown:      "0h 4m 30s",
		Seconds:        270,
	}, got)
}

func TestNext_InvalidExpression(t *testing.T) {
	svc, _, _ := setupTestService(t)
	require.NoError(t, svc.SetCronExpression(context.Background(), "* * *"))
	cmd := &NextCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})
	assert.Contains(t, output, "Next run: Invalid cron expression")
	assert.NotContains(t, output, "Time until")
}
