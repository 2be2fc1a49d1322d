package study

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Strategy schedules the (case, engine) jobs of one dispatch batch. The
// dispatcher itself never parallelizes; it hands the cross product to a
// strategy and collects outcomes.
type Strategy interface {
	Execute(ctx context.Context, jobs []RunJob, run func(context.Context, RunJob) RunOutcome) []RunOutcome
}

// Sequential runs jobs one after another in the given order.
type Sequential struct{}

func (Sequential) Execute(ctx context.Context, jobs []RunJob, run func(context.Context, RunJob) RunOutcome) []RunOutcome {
	outcomes := make([]RunOutcome, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes[i] = RunOutcome{Pair: job.Pair, Err: err}
			continue
		}
		outcomes[i] = run(ctx, job)
	}
	return outcomes
}

// Parallel runs up to Workers jobs concurrently. Job failures are carried in
// their outcomes and never cancel the rest of the batch.
type Parallel struct {
	Workers int
}

func (p Parallel) Execute(ctx context.Context, jobs []RunJob, run func(context.Context, RunJob) RunOutcome) []RunOutcome {
	workers := p.Workers
	if workers <= 0 {
		workers = 4
	}

	outcomes := make([]RunOutcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = RunOutcome{Pair: job.Pair, Err: err}
				return nil
			}
			outcomes[i] = run(ctx, job)
			return nil
		})
	}
	_ = g.Wait() // errors live in the outcomes
	return outcomes
}
