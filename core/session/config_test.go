package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/botguard/botguard/core/session"
)

func TestDefaultConfig_MatchesDocumentedDefaults(t *testing.T) {
	t.Parallel()

	cfg := session.DefaultConfig()
	assert.Equal(t, 100, cfg.MaxRequests)
	assert.Equal(t, 20, cfg.MaxSuspicionHistory)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.Equal(t, 10000, cfg.MaxSessions)
}
