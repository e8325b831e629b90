package testutil

import (
	"fmt"
	"time"
)

// FixedClock returns a fixed time, advancing by Step on every call
// when Step is non-zero.
type FixedClock struct {
	Time time.Time
	Step time.Duration
}

func (c *FixedClock) Now() time.Time {
	now := c.Time
	c.Time = c.Time.Add(c.Step)
	return now
}

// SequentialIDGenerator produces "id-1", "id-2", ... for
// deterministic scan IDs in tests.
type SequentialIDGenerator struct {
	n int
}

func (g *SequentialIDGenerator) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}
