package pong

import (
	"context"
	"sync"
)

type Option func(*Engine)

// WithSurface replaces the default surface, which reads the session itself.
func WithSurface(s Surface) Option {
	return func(e *Engine) {
		e.surface = s
	}
}

func WithTicker(t Ticker) Option {
	return func(e *Engine) {
		e.ticker = t
	}
}

func WithLogger(logf func(format string, args ...any)) Option {
	return func(e *Engine) {
		e.logf = logf
	}
}

// TickResult describes what one tick did.
type TickResult struct {
	Tick   uint64
	Ran    bool
	Motion Motion
	Hits   []Side
	Scored bool
	Scorer Side
}

// Engine owns a session and serializes every tick and key-down against it.
type Engine struct {
	mu      sync.Mutex
	session *Session
	surface Surface
	display Display
	ticker  Ticker
	logf    func(format string, args ...any)
	ticks   uint64
}

func NewEngine(f Field, d Display, opts ...Option) (*Engine, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if d == nil {
		d = NopDisplay{}
	}

	e := &Engine{
		session: NewSession(f),
		display: d,
		logf:    func(string, ...any) {},
	}
	e.surface = sessionSurface{s: e.session}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Run ticks the engine at the field's period until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	t := e.ticker
	if t == nil {
		t = NewTicker(e.session.Field.Tick)
	}

	e.logf("GAMES: Ticking every %s", e.session.Field.Tick)

	sched := NewScheduler(t, e.Running, func() { e.Tick() })
	err := sched.Run(ctx)

	e.logf("GAMES: Stopped after %d ticks (%d dropped)", sched.Delivered(), sched.Dropped())

	return err
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.Running()
}

// Snapshot returns a copy of the current session.
func (e *Engine) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	return *e.session
}

// Tick advances the simulation by one step. It does nothing while stopped.
func (e *Engine) Tick() TickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.Running() {
		return TickResult{Tick: e.ticks}
	}

	e.ticks++
	res := TickResult{Tick: e.ticks, Ran: true}

	// Motion and both hit tests read the same pre-tick ball.
	pre := s.Ball
	width, height := e.surface.FieldSize()
	res.Motion = ResolveMotion(pre, width, height)

	for _, side := range []Side{Near, Far} {
		if Collides(*s.Racket(side), e.surface.RacketOffset(side), pre, e.surface.BallSize()) {
			res.Hits = append(res.Hits, side)
		}
	}

	s.Ball.Apply(res.Motion)
	for range res.Hits {
		s.Ball.BounceY()
	}
	e.display.DrawBall(s.Ball.X, s.Ball.Y)

	if scorer, ok := Goal(s.Ball.Y, s.Field.Height); ok {
		res.Scored = true
		res.Scorer = scorer
		e.point(scorer)
	}

	e.mustHold()

	return res
}

func (e *Engine) point(scorer Side) {
	s := e.session

	score := s.Award(scorer)
	e.display.DrawScore(scorer, score)
	e.display.ShowWinner(true)
	e.display.AnnounceWinner(scorer.Player())

	s.Reset()
	e.display.ShowStart(true)
	e.display.DrawBall(s.Ball.X, s.Ball.Y)
	e.drawRackets()

	e.logf("GAMES: Player %d scored (%d-%d) after %d ticks", scorer.Player(), s.Near.Score, s.Far.Score, e.ticks)
}

// KeyDown starts a stopped session, then applies a.
func (e *Engine) KeyDown(a Action) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Start() {
		e.display.ShowStart(false)
		e.display.ShowWinner(false)
		e.logf("GAMES: Session %s", s.Status)
	}

	s.Move(a)
	e.drawRackets()

	e.mustHold()
}

func (e *Engine) drawRackets() {
	e.display.DrawRacket(Near, e.session.Near.X)
	e.display.DrawRacket(Far, e.session.Far.X)
}

func (e *Engine) mustHold() {
	if err := e.session.Check(); err != nil {
		panic(err)
	}
}
