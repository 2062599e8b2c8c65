package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDisabledCacheIsSafe(t *testing.T) {
	// unreachable redis leaves the cache in disabled mode
	c := New("redis://127.0.0.1:1", "", discardLogger())
	require.NotNil(t, c)

	ctx := context.Background()

	var dest []string
	found, err := c.GetJSON(ctx, "some_key", &dest)
	assert.False(t, found)
	assert.NoError(t, err)

	assert.NoError(t, c.SetJSON(ctx, "some_key", []string{"a"}, 15*time.Second))
	assert.NoError(t, c.Del(ctx, "some_key"))
	assert.Nil(t, c.Client())
	assert.NoError(t, c.Close())
}

func TestBadURLDisablesCache(t *testing.T) {
	c := New("not-a-url", "", discardLogger())
	require.NotNil(t, c)
	assert.Nil(t, c.Client())
}
