package circuitbreaker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBreaker_HealthcheckSignalsDegradedWhenHalfOpen is a white-box
// test: HalfOpen is only ever observed transiently inside Execute, so
// the state is set directly here to assert Healthcheck's mapping.
func TestBreaker_HealthcheckSignalsDegradedWhenHalfOpen(t *testing.T) {
	t.Parallel()

	b := New(Config{})
	b.mu.Lock()
	b.state = HalfOpen
	b.mu.Unlock()

	err := b.Healthcheck(context.Background())
	assert.Error(t, err)

	_, ok := err.(interface{ Degraded() error })
	assert.True(t, ok, "half-open healthcheck should signal degraded")
}
