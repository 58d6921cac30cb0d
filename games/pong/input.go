package pong

// Action is a logical control, already resolved from whatever key produced it.
type Action int

const (
	None Action = iota
	NearLeft
	NearRight
	FarLeft
	FarRight
)

var actionName = map[Action]string{
	None:      "none",
	NearLeft:  "near_left",
	NearRight: "near_right",
	FarLeft:   "far_left",
	FarRight:  "far_right",
}

func (a Action) String() string {
	return actionName[a]
}

// Target returns the racket moved by a and the sign of the move.
func (a Action) Target() (side Side, dir int, ok bool) {
	switch a {
	case NearLeft:
		return Near, -1, true
	case NearRight:
		return Near, 1, true
	case FarLeft:
		return Far, -1, true
	case FarRight:
		return Far, 1, true
	}

	return Near, 0, false
}

// Move shifts the racket named by a by one racket step, clamped to the field.
func (s *Session) Move(a Action) {
	side, dir, ok := a.Target()
	if !ok {
		return
	}

	r := s.Racket(side)
	x := r.X + float64(dir)*s.Field.RacketSpeed
	r.X = min(max(x, 0), s.Field.Width-r.Size)
}
