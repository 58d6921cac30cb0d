package pong

import (
	"errors"
	"fmt"
)

// ErrInvariant marks session state that no sequence of legal operations can produce.
var ErrInvariant = errors.New("session invariant violated")

type Side int

const (
	Near Side = iota
	Far
)

var sideName = map[Side]string{
	Near: "near",
	Far:  "far",
}

func (s Side) String() string {
	return sideName[s]
}

// Player is the number shown to humans: the near racket is player 1.
func (s Side) Player() int {
	if s == Near {
		return 1
	}
	return 2
}

type Status int

const (
	Stopped Status = iota
	Running
)

var statusName = map[Status]string{
	Stopped: "STOPPED",
	Running: "RUNNING",
}

func (s Status) String() string {
	return statusName[s]
}

type Racket struct {
	Side    Side
	Score   int
	X       float64
	YUpper  float64
	YBottom float64
	Size    float64
}

func newRacket(f Field, side Side) Racket {
	upper, bottom := f.Band(side)

	return Racket{
		Side:    side,
		X:       f.racketHome(),
		YUpper:  upper,
		YBottom: bottom,
		Size:    f.RacketWidth,
	}
}

type Ball struct {
	X     float64
	Y     float64
	DirX  int
	DirY  int
	Speed float64
}

func newBall(f Field) Ball {
	x, y := f.ballHome()

	return Ball{
		X:     x,
		Y:     y,
		DirX:  -1,
		DirY:  -1,
		Speed: f.BallSpeed,
	}
}

// Session is the complete mutable state of one game.
type Session struct {
	Field  Field
	Near   Racket
	Far    Racket
	Ball   Ball
	Status Status
}

func NewSession(f Field) *Session {
	return &Session{
		Field:  f,
		Near:   newRacket(f, Near),
		Far:    newRacket(f, Far),
		Ball:   newBall(f),
		Status: Stopped,
	}
}

func (s *Session) Racket(side Side) *Racket {
	if side == Near {
		return &s.Near
	}
	return &s.Far
}

// Start moves a stopped session to running and reports whether it did.
func (s *Session) Start() bool {
	if s.Status == Running {
		return false
	}
	s.Status = Running

	return true
}

func (s *Session) Running() bool {
	return s.Status == Running
}

// Reset re-centers the ball and both rackets and stops play. Scores are kept.
func (s *Session) Reset() {
	s.Ball = newBall(s.Field)
	s.Near.X = s.Field.racketHome()
	s.Far.X = s.Field.racketHome()
	s.Status = Stopped
}

// Check returns an error wrapping ErrInvariant if the session is corrupt.
func (s *Session) Check() error {
	for _, r := range []*Racket{&s.Near, &s.Far} {
		if r.X < 0 || r.X > s.Field.Width-r.Size {
			return fmt.Errorf("%w: %s racket x=%v outside [0, %v]", ErrInvariant, r.Side, r.X, s.Field.Width-r.Size)
		}
		if r.Score < 0 {
			return fmt.Errorf("%w: %s racket score %d", ErrInvariant, r.Side, r.Score)
		}
	}

	if !unit(s.Ball.DirX) || !unit(s.Ball.DirY) {
		return fmt.Errorf("%w: ball direction (%d, %d)", ErrInvariant, s.Ball.DirX, s.Ball.DirY)
	}

	return nil
}

func unit(d int) bool {
	return d == 1 || d == -1
}
