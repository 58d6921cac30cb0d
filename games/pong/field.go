package pong

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultFieldWidth   = 400
	DefaultFieldHeight  = 800
	DefaultRacketWidth  = 120
	DefaultRacketHeight = 20
	DefaultBallSize     = 20
	DefaultBallSpeed    = 5
	DefaultRacketSpeed  = 25
	DefaultTick         = 20 * time.Millisecond
)

// Field holds the fixed geometry and pacing of a game.
type Field struct {
	Width        float64
	Height       float64
	RacketWidth  float64
	RacketHeight float64
	BallSize     float64
	BallSpeed    float64
	RacketSpeed  float64
	Tick         time.Duration
}

func DefaultField() Field {
	return Field{
		Width:        DefaultFieldWidth,
		Height:       DefaultFieldHeight,
		RacketWidth:  DefaultRacketWidth,
		RacketHeight: DefaultRacketHeight,
		BallSize:     DefaultBallSize,
		BallSpeed:    DefaultBallSpeed,
		RacketSpeed:  DefaultRacketSpeed,
		Tick:         DefaultTick,
	}
}

func (f Field) Validate() error {
	switch {
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("invalid field size: %vx%v", f.Width, f.Height)
	case f.RacketWidth <= 0 || f.RacketHeight <= 0:
		return fmt.Errorf("invalid racket size: %vx%v", f.RacketWidth, f.RacketHeight)
	case f.RacketWidth > f.Width:
		return fmt.Errorf("racket width %v exceeds field width %v", f.RacketWidth, f.Width)
	case 4*f.RacketHeight > f.Height:
		return fmt.Errorf("racket height %v leaves no room in field height %v", f.RacketHeight, f.Height)
	case f.BallSize <= 0:
		return fmt.Errorf("invalid ball size: %v", f.BallSize)
	case f.BallSpeed <= 0:
		return fmt.Errorf("invalid ball speed: %v", f.BallSpeed)
	case f.RacketSpeed <= 0:
		return fmt.Errorf("invalid racket speed: %v", f.RacketSpeed)
	case f.Tick <= 0:
		return errors.New("tick period must be positive")
	}

	return nil
}

// Band returns the fixed vertical extent of the racket owned by side.
func (f Field) Band(side Side) (upper, bottom float64) {
	if side == Near {
		upper = f.Height - 2*f.RacketHeight
	} else {
		upper = f.RacketHeight
	}

	return upper, upper + f.RacketHeight
}

func (f Field) racketHome() float64 {
	return f.Width/2 - f.RacketWidth/2
}

func (f Field) ballHome() (x, y float64) {
	return f.Width/2 - f.BallSize/2, f.Height/2 - f.BallSize/2
}
