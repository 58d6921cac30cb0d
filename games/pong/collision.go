package pong

// HitPolicy tests whether a projected ball Y overlaps a racket band.
// The two sides compare differently and must stay that way: the near
// racket checks the ball's trailing edge with strict bounds, the far
// racket checks the leading edge.
type HitPolicy func(r Racket, ballY, ballSize float64) bool

func nearHit(r Racket, ballY, ballSize float64) bool {
	edge := ballY + ballSize
	return edge > r.YUpper && edge < r.YBottom
}

func farHit(r Racket, ballY, _ float64) bool {
	return ballY < r.YBottom && ballY > r.YUpper
}

var hitPolicies = map[Side]HitPolicy{
	Near: nearHit,
	Far:  farHit,
}

func PolicyFor(side Side) HitPolicy {
	return hitPolicies[side]
}

// Collides reports whether b, advanced one step along its current
// direction, lands on r drawn at offset.
func Collides(r Racket, offset float64, b Ball, ballSize float64) bool {
	px, py := b.Projected()

	if px < offset || px > offset+r.Size {
		return false
	}

	return PolicyFor(r.Side)(r, py, ballSize)
}
