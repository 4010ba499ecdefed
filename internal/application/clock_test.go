package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func TestSince(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &stepClock{t: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, Since(c, start))
	assert.GreaterOrEqual(t, Since(nil, time.Now().Add(-time.Second)), time.Second)
}
