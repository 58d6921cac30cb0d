package pong

// Motion is everything one tick does to the ball, derived from a single snapshot.
type Motion struct {
	DirX  int
	DirY  int
	StepX float64
	StepY float64
}

func nextPosition(pos, speed float64, dir int) float64 {
	return pos + speed*float64(dir)
}

// nextDirection bounces off [0, limit]. Exceeding limit turns the axis
// negative, dropping below zero turns it positive.
func nextDirection(pos, speed float64, dir int, limit float64) int {
	projected := nextPosition(pos, speed, dir)

	if projected > limit {
		dir = -1
	}
	if projected < 0 {
		dir = 1
	}

	return dir
}

// ResolveMotion computes both axes for the next tick of b inside a
// width x height drawable area.
func ResolveMotion(b Ball, width, height float64) Motion {
	dirX := nextDirection(b.X, b.Speed, b.DirX, width)
	dirY := nextDirection(b.Y, b.Speed, b.DirY, height)

	return Motion{
		DirX:  dirX,
		DirY:  dirY,
		StepX: b.Speed * float64(dirX),
		StepY: b.Speed * float64(dirY),
	}
}

// Apply commits m as one unit.
func (b *Ball) Apply(m Motion) {
	b.DirX = m.DirX
	b.DirY = m.DirY
	b.X += m.StepX
	b.Y += m.StepY
}

// Projected is where b lands next tick if nothing changes its direction.
func (b Ball) Projected() (x, y float64) {
	return nextPosition(b.X, b.Speed, b.DirX), nextPosition(b.Y, b.Speed, b.DirY)
}

func (b *Ball) BounceY() {
	b.DirY = -b.DirY
}
