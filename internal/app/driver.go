package app

import (
	"context"
	"errors"
	"time"

	"tower-siege/internal/config"
	"tower-siege/internal/entity"
)

// ErrDriverStopped is returned by Submit once Run has exited.
var ErrDriverStopped = errors.New("driver stopped")

// Result is the outcome of a submitted command.
type Result struct {
	State *entity.GameState
	Err   error
}

type request struct {
	cmd   Command
	reply chan Result
}

// Driver serialises ticks and player commands for one Game on a single
// goroutine, so no mutation ever observes a stale snapshot. Ticks that fall
// due while a tick or command is running are dropped by the ticker.
type Driver struct {
	game     *Game
	interval time.Duration
	requests chan request
	done     chan struct{}
	now      func() time.Time
}

// NewDriver creates a driver ticking every interval (config.TickInterval
// when zero).
func NewDriver(g *Game, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = config.TickInterval
	}
	return &Driver{
		game:     g,
		interval: interval,
		requests: make(chan request),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := d.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := d.now()
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			d.game.Step(dt)
		case req := <-d.requests:
			st, err := d.game.Execute(req.cmd)
			if err == nil && req.cmd.Kind == CmdResume {
				// Время паузы не должно попасть в следующий тик.
				last = d.now()
			}
			req.reply <- Result{State: st, Err: err}
		}
	}
}

// Submit queues a command and waits for its result.
func (d *Driver) Submit(ctx context.Context, c Command) (Result, error) {
	req := request{cmd: c, reply: make(chan Result, 1)}
	select {
	case d.requests <- req:
	case <-d.done:
		return Result{}, ErrDriverStopped
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Game returns the driven session.
func (d *Driver) Game() *Game {
	return d.game
}
