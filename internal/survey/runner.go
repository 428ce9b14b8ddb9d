package survey

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sink receives the results of each completed pass, e.g. for persistence
// or reporting. Sink errors are logged, never propagated: losing one
// pass's records must not stop the survey.
type Sink func(ctx context.Context, results []Result) error

// Runner repeats survey passes on a fixed interval. Unlike a generic
// check scheduler there is no worker pool: one radio means one pass at a
// time.
type Runner struct {
	surveyor *Surveyor
	sink     Sink
	interval time.Duration
	// resetEvery resets the tested set every Nth pass so networks get
	// re-attempted periodically.
	resetEvery int
	runTests   bool
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a continuous survey runner. interval defaults to 5m
// and resetEvery to 5 when non-positive.
func NewRunner(surveyor *Surveyor, sink Sink, interval time.Duration, resetEvery int, runTests bool, logger *zap.Logger) *Runner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if resetEvery <= 0 {
		resetEvery = 5
	}
	return &Runner{
		surveyor:   surveyor,
		sink:       sink,
		interval:   interval,
		resetEvery: resetEvery,
		runTests:   runTests,
		logger:     logger,
	}
}

// Start begins the survey loop in a background goroutine. The first pass
// runs immediately, then one per interval.
func (r *Runner) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		iteration := 0
		r.pass(runCtx, iteration)

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				iteration++
				if iteration%r.resetEvery == 0 {
					r.surveyor.ResetPass()
				}
				r.pass(runCtx, iteration)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight pass to finish its
// current platform call.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// pass runs one survey pass and hands results to the sink.
func (r *Runner) pass(ctx context.Context, iteration int) {
	results, err := r.surveyor.RunFullSurvey(ctx, r.runTests)
	if err != nil {
		r.logger.Warn("survey pass failed",
			zap.Int("iteration", iteration),
			zap.Error(err),
		)
		return
	}
	if r.sink == nil || len(results) == 0 {
		return
	}
	if err := r.sink(ctx, results); err != nil {
		r.logger.Warn("result sink failed",
			zap.Int("iteration", iteration),
			zap.Int("results", len(results)),
			zap.Error(err),
		)
	}
}
