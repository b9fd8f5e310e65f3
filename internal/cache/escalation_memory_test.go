package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEscalationCacheOrdersNewestFirst(t *testing.T) {
	c := NewMemoryEscalationCache()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, c.Add(ctx, "a", base))
	require.NoError(t, c.Add(ctx, "b", base.Add(time.Minute)))
	require.NoError(t, c.Add(ctx, "c", base.Add(2*time.Minute)))

	got, err := c.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].SessionID)
	assert.Equal(t, "b", got[1].SessionID)

	require.NoError(t, c.Remove(ctx, "c"))
	got, err = c.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].SessionID)
}
