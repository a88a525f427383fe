// Package batch converts many paintings concurrently, isolating each
// failure to its own request.
package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/Faultbox/artglb/internal/asset"
	"github.com/Faultbox/artglb/internal/logger"
)

// Driver errors.
var (
	ErrPanic                = errors.New("asset build panicked")
	ErrDuplicateDestination = errors.New("destination already claimed by an earlier request")
)

// queueSize bounds pending tasks in the worker pool.
const queueSize = 256

// Builder builds a single asset. *asset.Builder satisfies it.
type Builder interface {
	Build(req asset.Request) (*asset.Result, error)
}

// Driver fans requests out over a worker pool. Each Run owns its pool and
// stops it before returning, so an idle Driver holds no goroutines.
type Driver struct {
	builder Builder
	workers int
	log     *zap.Logger
}

// NewDriver returns a Driver running at most workers builds at once.
func NewDriver(builder Builder, workers int, log *zap.Logger) *Driver {
	if workers < 1 {
		workers = 1
	}
	return &Driver{
		builder: builder,
		workers: workers,
		log:     logger.OrNop(log),
	}
}

// Run builds every request and returns once all have finished. Outcomes are
// in request order. A failing or panicking request does not stop the others.
// A request whose destination repeats an earlier one fails without building.
func (d *Driver) Run(reqs []asset.Request) *Report {
	start := time.Now()
	outcomes := make([]Outcome, len(reqs))
	claimed := make(map[string]int, len(reqs))

	pool := worker.NewDynamicWorkerPool(d.workers, queueSize, time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, req := range reqs {
		key := filepath.Clean(req.Destination)
		if first, dup := claimed[key]; dup {
			outcomes[i] = Outcome{
				Request: req,
				Err:     fmt.Errorf("%w: request %d writes %s", ErrDuplicateDestination, first, req.Destination),
			}
			d.log.Error("asset failed", zap.String("source", req.Source), zap.Error(outcomes[i].Err))
			continue
		}
		claimed[key] = i

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				outcomes[i] = d.build(req)
				return nil, outcomes[i].Err
			},
		})
	}
	wg.Wait()

	report := newReport(outcomes)
	d.log.Info("batch finished",
		zap.Int("total", len(reqs)),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("workers", d.workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report
}

// build runs one request, converting a panic into a failed outcome.
func (d *Driver) build(req asset.Request) (out Outcome) {
	out.Request = req
	defer func() {
		if r := recover(); r != nil {
			out.Result = nil
			out.Err = fmt.Errorf("%w: %v", ErrPanic, r)
			d.log.Error("asset failed", zap.String("source", req.Source), zap.Error(out.Err))
		}
	}()

	res, err := d.builder.Build(req)
	if err != nil {
		out.Err = err
		d.log.Error("asset failed", zap.String("source", req.Source), zap.Error(err))
		return out
	}

	out.Result = res
	d.log.Info("asset written",
		zap.String("destination", res.Destination),
		zap.Int64("bytes", res.Bytes),
		zap.Int("texture_width", res.TextureWidth),
		zap.Int("texture_height", res.TextureHeight),
	)
	return out
}
