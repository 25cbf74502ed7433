package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponential_DoublesUntilMax(t *testing.T) {
	assert.Equal(t, time.Second, Exponential(time.Second, 10*time.Second, 0))
	assert.Equal(t, 4*time.Second, Exponential(time.Second, 10*time.Second, 2))
	assert.Equal(t, 10*time.Second, Exponential(time.Second, 10*time.Second, 8))
}

func TestDuration_StaysWithinBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Duration(time.Second, DefaultJitter)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}
