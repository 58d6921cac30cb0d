package pong

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoal(t *testing.T) {
	scorer, ok := Goal(800, 800)
	assert.True(t, ok)
	assert.Equal(t, Far, scorer, "Crossing the near line should score the far racket")

	scorer, ok = Goal(0, 800)
	assert.True(t, ok)
	assert.Equal(t, Near, scorer, "Crossing the far line should score the near racket")

	scorer, ok = Goal(-5, 800)
	assert.True(t, ok)
	assert.Equal(t, Near, scorer)

	_, ok = Goal(400, 800)
	assert.False(t, ok, "No goal in the middle of the field")
}

func TestGoalNearLineFirst(t *testing.T) {
	scorer, ok := Goal(0, 0)

	assert.True(t, ok)
	assert.Equal(t, Far, scorer, "When both lines are crossed the near line wins")
}

func TestAward(t *testing.T) {
	s := NewSession(DefaultField())

	assert.Equal(t, 1, s.Award(Near))
	assert.Equal(t, 2, s.Award(Near))
	assert.Equal(t, 1, s.Award(Far))
	assert.Equal(t, 2, s.Near.Score)
	assert.Equal(t, 1, s.Far.Score)
}
