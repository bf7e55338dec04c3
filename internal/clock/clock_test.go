package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	assert.Equal(t, start, fake.Now())

	fake.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), fake.Now())

	later := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	fake.Set(later)
	assert.Equal(t, later, fake.Now())
}

func TestReal_IsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Real().Now().Location())
}
