package pong

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nearRacketAt(x float64) Racket {
	return Racket{Side: Near, X: x, YUpper: 760, YBottom: 800, Size: 120}
}

func TestCollidesNearRacket(t *testing.T) {
	r := nearRacketAt(140)

	// projects to (150, 770)
	ball := Ball{X: 155, Y: 775, DirX: -1, DirY: -1, Speed: 5}
	assert.True(t, Collides(r, r.X, ball, 20), "Ball projected onto the racket should hit")

	ball.X = 400
	assert.False(t, Collides(r, r.X, ball, 20), "Ball to the right of the racket should miss")

	ball.X = 140
	assert.False(t, Collides(r, r.X, ball, 20), "Projected x left of the racket should miss")
}

func TestCollidesHorizontalEdgesInclusive(t *testing.T) {
	r := nearRacketAt(140)

	ball := Ball{X: 145, Y: 775, DirX: -1, DirY: -1, Speed: 5}
	assert.True(t, Collides(r, r.X, ball, 20), "Left edge should count")

	ball.X = 265
	assert.True(t, Collides(r, r.X, ball, 20), "Right edge should count")
}

func TestCollidesUsesRenderedOffset(t *testing.T) {
	r := nearRacketAt(0)
	ball := Ball{X: 155, Y: 775, DirX: -1, DirY: -1, Speed: 5}

	assert.False(t, Collides(r, 0, ball, 20))
	assert.True(t, Collides(r, 140, ball, 20), "The offset argument decides where the racket is")
}

func TestNearPolicyIsStrictOnTrailingEdge(t *testing.T) {
	r := nearRacketAt(0)
	policy := PolicyFor(Near)

	assert.False(t, policy(r, 740, 20), "Trailing edge on the band top should not hit")
	assert.True(t, policy(r, 741, 20))
	assert.True(t, policy(r, 779, 20))
	assert.False(t, policy(r, 780, 20), "Trailing edge on the band bottom should not hit")
}

func TestFarPolicyIgnoresBallSize(t *testing.T) {
	f := DefaultField()
	r := newRacket(f, Far)
	policy := PolicyFor(Far)

	assert.False(t, policy(r, 20, 20), "Leading edge on the band top should not hit")
	assert.True(t, policy(r, 21, 0))
	assert.True(t, policy(r, 39, 1000), "Ball size should not matter for the far racket")
	assert.False(t, policy(r, 40, 20), "Leading edge on the band bottom should not hit")
}

func TestPoliciesDifferOnSameBand(t *testing.T) {
	r := nearRacketAt(0)

	assert.True(t, nearHit(r, 745, 20))
	assert.False(t, farHit(r, 745, 20), "The two sides must keep their own comparisons")
}
