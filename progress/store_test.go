package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkStudiedIdempotent(t *testing.T) {
	s := NewStore()

	assert.False(t, s.IsStudied(1, "a.txt"))

	s.MarkStudied(1, "a.txt")
	assert.True(t, s.IsStudied(1, "a.txt"))

	s.MarkStudied(1, "a.txt")
	assert.True(t, s.IsStudied(1, "a.txt"))
	assert.Equal(t, 1, s.StudiedCount(1))

	// Other users are unaffected.
	assert.False(t, s.IsStudied(2, "a.txt"))
}

func TestStatsFor(t *testing.T) {
	s := NewStore()
	s.MarkStudied(7, "a.txt")
	s.MarkStudied(7, "b.txt")

	studied, percent := s.StatsFor(7, 4)
	assert.Equal(t, 2, studied)
	assert.InDelta(t, 50.0, percent, 0.001)

	// Zero total yields zeros regardless of the map contents.
	studied, percent = s.StatsFor(7, 0)
	assert.Equal(t, 0, studied)
	assert.Equal(t, 0.0, percent)

	// Unknown user.
	studied, percent = s.StatsFor(99, 4)
	assert.Equal(t, 0, studied)
	assert.Equal(t, 0.0, percent)
}
