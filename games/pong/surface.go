package pong

// Surface exposes what the collision test needs to know about the drawn scene.
type Surface interface {
	RacketOffset(side Side) float64
	BallSize() float64
	FieldSize() (width, height float64)
}

// Display receives every visible change. Calls must not block.
type Display interface {
	DrawRacket(side Side, x float64)
	DrawBall(x, y float64)
	DrawScore(side Side, score int)
	ShowStart(visible bool)
	ShowWinner(visible bool)
	AnnounceWinner(player int)
}

type NopDisplay struct{}

func (NopDisplay) DrawRacket(Side, float64)  {}
func (NopDisplay) DrawBall(float64, float64) {}
func (NopDisplay) DrawScore(Side, int)       {}
func (NopDisplay) ShowStart(bool)            {}
func (NopDisplay) ShowWinner(bool)           {}
func (NopDisplay) AnnounceWinner(int)        {}

// sessionSurface answers from the session itself, which is what the
// display was last told.
type sessionSurface struct {
	s *Session
}

func (ss sessionSurface) RacketOffset(side Side) float64 {
	return ss.s.Racket(side).X
}

func (ss sessionSurface) BallSize() float64 {
	return ss.s.Field.BallSize
}

func (ss sessionSurface) FieldSize() (float64, float64) {
	return ss.s.Field.Width, ss.s.Field.Height
}
