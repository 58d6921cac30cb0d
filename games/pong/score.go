package pong

// Goal reports which racket, if any, wins a point with the ball at y.
// The near line is tested first.
func Goal(y, height float64) (scorer Side, ok bool) {
	if y >= height {
		return Far, true
	}
	if y <= 0 {
		return Near, true
	}

	return Near, false
}

// Award adds exactly one point to side and returns the new score.
func (s *Session) Award(side Side) int {
	r := s.Racket(side)
	r.Score++

	return r.Score
}
