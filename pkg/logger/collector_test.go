package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorEvictsOldest(t *testing.T) {
	c := NewLogCollector(&CollectionConfig{Capacity: 3})

	for _, msg := range []string{"one", "two", "three", "four", "five"} {
		c.AddLog("info", msg, nil, "caller")
	}

	got := c.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "five", got[0].Message)
	assert.Equal(t, "four", got[1].Message)
	assert.Equal(t, "three", got[2].Message)
}

func TestCollectorRecentBound(t *testing.T) {
	c := NewLogCollector(&CollectionConfig{Capacity: 10})
	c.AddLog("info", "a", nil, "")
	c.AddLog("warn", "b", nil, "")

	assert.Len(t, c.Recent(1), 1)
	assert.Len(t, c.Recent(50), 2)
	assert.Equal(t, "b", c.Recent(1)[0].Message)
}

func TestCollectorLevelFilter(t *testing.T) {
	c := NewLogCollector(&CollectionConfig{Capacity: 10, Levels: []string{"error"}})
	c.AddLog("info", "ignored", nil, "")
	c.AddLog("error", "kept", nil, "")

	got := c.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Message)
}

func TestLoggerFeedsCollector(t *testing.T) {
	l, err := New(&Config{Level: "info", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	l.AddCollector(&CollectionConfig{Capacity: 5})

	l.Info("cycle done", Int("scored", 9))
	l.Error("fetch failed", String("symbol", "NVDA"))

	got := l.Collector().Recent(0)
	require.Len(t, got, 2)
	assert.Equal(t, "error", got[0].Level)
	assert.Equal(t, "fetch failed", got[0].Message)
	assert.Equal(t, "NVDA", got[0].Fields["symbol"])
}
