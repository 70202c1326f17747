// Package worker provides a bounded worker pool used to cap the number
// of simultaneous in-flight network probes per scan phase.
package worker

import (
	"context"
	"sync"

	"github.com/netsweep/netsweep/internal/logger"
)

// Job is a single unit of work executed by a Pool
type Job func(ctx context.Context)

// Pool executes jobs with a fixed number of concurrent workers
type Pool struct {
	size int
	log  logger.Logger
}

// NewPool returns a pool running at most size jobs concurrently
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{
		size: size,
		log:  logger.New(),
	}
}

// Size returns the concurrency cap for this pool
func (p *Pool) Size() int {
	return p.size
}

// Run executes all jobs and blocks until every started job has
// finished. When ctx is canceled remaining unstarted jobs are discarded
// while in-flight jobs drain on their own timeouts. A panic in one job
// is contained and logged without affecting other jobs.
func (p *Pool) Run(ctx context.Context, jobs []Job) {
	jobChan := make(chan Job)

	wg := &sync.WaitGroup{}

	for i := 0; i < p.size; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for job := range jobChan {
				p.runJob(ctx, job)
			}
		}()
	}

submit:
	for _, job := range jobs {
		// checked before every send so a freed-up worker cannot win
		// the select race against an already-canceled context
		if ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
			break submit
		case jobChan <- job:
		}
	}

	close(jobChan)

	wg.Wait()
}

func (p *Pool) runJob(ctx context.Context, job Job) {
	// a job handed off concurrently with cancellation is discarded
	// rather than started
	if ctx.Err() != nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error().
				Interface("panic", r).
				Msg("worker job panicked")
		}
	}()

	job(ctx)
}
