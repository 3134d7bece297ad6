package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiterEnforcesBurstPerKey(t *testing.T) {
	l := NewLoginLimiter(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("member@example.com"), "attempt %d should pass", i+1)
	}
	assert.False(t, l.Allow("member@example.com"))

	// Other keys are unaffected.
	assert.True(t, l.Allow("doctor@example.com"))
}
