package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task pairs one input with its outcome.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc handles a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc over a slice of inputs with bounded concurrency.
type Pool[T any, R any] struct {
	name    string
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a pool. The name labels its log lines.
func NewPool[T any, R any](name string, workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		name:    name,
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool. Results keep the input order.
// Inputs not started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	for i, in := range inputs {
		results[i] = Task[T, R]{Input: in, Err: context.Canceled}
	}
	inputCh := make(chan int)

	var wg sync.WaitGroup
	for w := range p.workers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				if ctx.Err() != nil {
					results[idx].Err = ctx.Err()
					continue
				}
				result, err := p.process(ctx, inputs[idx])
				results[idx] = Task[T, R]{Input: inputs[idx], Result: result, Err: err}
				if err != nil {
					log.Error().Err(err).Str("pool", p.name).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			for j := i; j < len(inputs); j++ {
				results[j].Err = ctx.Err()
			}
			break send
		case inputCh <- i:
		}
	}
	close(inputCh)

	wg.Wait()
	log.Debug().Str("pool", p.name).Int("tasks", len(inputs)).Msg("Pool finished")
	return results
}

// Errors joins the errors of failed tasks, or returns nil.
func Errors[T any, R any](tasks []Task[T, R]) error {
	var errs []error
	for _, t := range tasks {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errors.Join(errs...)
}

// Batch splits items into slices of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
