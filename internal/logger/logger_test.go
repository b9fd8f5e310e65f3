package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"session_id", "abc-123",
		"text", "I feel awful",
		"tier", "high",
		"dangling",
	})

	assert.Len(t, out, 7)
	assert.Equal(t, "session_id", out[0])
	assert.Contains(t, out[1], "hash:")
	assert.NotEqual(t, "abc-123", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Equal(t, "high", out[5])
	assert.Equal(t, "dangling", out[6])
}

func TestSanitizeValueJWT(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzZXNzaW9uSWQiOiJ4In0.sig"
	assert.Equal(t, "[REDACTED]", sanitizeValue("header", jwt))
	assert.Equal(t, "plain", sanitizeValue("header", "plain"))
}

func TestNewNop(t *testing.T) {
	l := NewNop().With("component", "test")
	l.Info("ignored", "k", "v")
	l.Sync()
}
