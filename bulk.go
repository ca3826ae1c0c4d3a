package etsi

import (
	"context"
	"sync"
)

// Outcome is the result of resolving one input in a batch.
type Outcome struct {
	Input string
	Spec  *ResolvedSpec
	Err   error
}

// ResolveAll resolves each input and returns the outcomes in input order.
// Inputs are resolved one at a time; see ResolveAllWithConcurrency.
func (r *Resolver) ResolveAll(ctx context.Context, inputs []string) []Outcome {
	return r.ResolveAllWithConcurrency(ctx, inputs, 1)
}

// ResolveAllWithConcurrency resolves up to concurrency inputs at once. Each
// query still runs its own stages sequentially. Inputs not started before
// ctx is done report ctx.Err().
func (r *Resolver) ResolveAllWithConcurrency(ctx context.Context, inputs []string, concurrency int) []Outcome {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Outcome, len(inputs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, input := range inputs {
		results[i].Input = input
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i].Err = ctx.Err()
				return
			}

			results[i].Spec, results[i].Err = r.Resolve(ctx, input)
		}(i, input)
	}

	wg.Wait()
	return results
}
