package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NoPages(t *testing.T) {
	svc, _, rec := setupTestService(t)
	cmd := &OpenCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})
	assert.Contains(t, output, "No pages to open.")
	assert.Empty(t, rec.URLs())
}

func TestOpen_PrefersNeverOpened(t *testing.T) {
	svc, store, rec := setupTestService(t)
	ctx := context.Background()
	seedPages(t, store, testNow)
	cmd := &OpenCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(ctx, svc, testNow))
	})
	assert.Contains(t, output, "Opened #2 https://b.example")
	assert.Equal(t, []string{"https://b.example"}, rec.URLs())

	page, err := store.GetPage(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, page.LastOpened)
	assert.True(t, testNow.Equal(*page.LastOpened))
}

func TestOpen_JSONOutput(t *testing.T) {
	svc, store, _ := setupTestService(t)
	seedPages(t, store, testNow)
	cmd := &OpenCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(context.Background(), svc, testNow))
	})

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, true, got["opened"])
	assert.Equal(t, float64(2), got["page_id"])
	assert.Equal(t, "https://b.example", got["url"])
	assert.Equal(t, testNow.Format(time.RFC3339Nano), got["at"])
}

func TestOpen_LauncherFailure(t *testing.T) {
	svc, store, rec := setupTestService(t)
	ctx := context.Background()
	seedPages(t, store, testNow)
	rec.Err = errors.New("no display")
	cmd := &OpenCommand{globals: &GlobalFlags{}}

	err := cmd.executeWithService(ctx, svc, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")

	page, err := store.GetPage(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, page.LastOpened)
}
