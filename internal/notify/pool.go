package notify

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vd09-projects/relctx/internal/utils"
)

const maxWorkers = 64

// Pool runs background tasks with bounded concurrency.
type Pool struct {
	ctx context.Context
	g   errgroup.Group
	log *slog.Logger
}

// NewPool runs at most workers tasks at once; tasks receive ctx.
func NewPool(ctx context.Context, workers int, log *slog.Logger) *Pool {
	if log == nil {
		log = slog.Default()
	}
	p := &Pool{ctx: ctx, log: log}
	p.g.SetLimit(utils.Clamp(workers, 1, maxWorkers))
	return p
}

// Submit queues fn, blocking while every worker is busy.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	p.g.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		if err := fn(p.ctx); err != nil {
			p.log.Warn("background task failed", "task", name, "error", err)
			return err
		}
		return nil
	})
}

// Wait blocks until every submitted task is done and returns the first error.
func (p *Pool) Wait() error { return p.g.Wait() }
