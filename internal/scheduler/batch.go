package scheduler

import (
	"context"
	"fmt"
)

// Outcome is the result of attempting one candidate in a batch.
type Outcome struct {
	ID  string
	Err error
}

// BatchResult aggregates the per-item outcomes of one firing.
type BatchResult struct {
	Attempted int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Candidate is a unit of work selected for one firing. The ID identifies
// the item in logs and outcomes.
type Candidate[T any] struct {
	ID    string
	Value T
}

// AttemptAll runs action over every candidate and collects one Outcome per
// item. A failing or panicking action never stops the batch: the error is
// recorded and the remaining candidates are still attempted. This is the
// failure-isolation contract every periodic task relies on.
func AttemptAll[T any](ctx context.Context, candidates []Candidate[T], action func(ctx context.Context, value T) error) BatchResult {
	result := BatchResult{
		Attempted: len(candidates),
		Outcomes:  make([]Outcome, 0, len(candidates)),
	}

	for _, candidate := range candidates {
		err := attemptOne(ctx, candidate, action)
		if err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Outcomes = append(result.Outcomes, Outcome{ID: candidate.ID, Err: err})
	}
	return result
}

func attemptOne[T any](ctx context.Context, candidate Candidate[T], action func(ctx context.Context, value T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked for %s: %v", candidate.ID, r)
		}
	}()
	return action(ctx, candidate.Value)
}

// Merge folds another batch result into this one.
func (r *BatchResult) Merge(other BatchResult) {
	r.Attempted += other.Attempted
	r.Succeeded += other.Succeeded
	r.Failed += other.Failed
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
}

// FailedOutcomes returns only the outcomes that carry an error.
func (r BatchResult) FailedOutcomes() []Outcome {
	var failed []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Chunk splits candidates into groups of at most size elements. Chunking
// is a throughput control only; it does not change the per-item
// failure-isolation contract. A non-positive size yields a single chunk.
func Chunk[T any](candidates []Candidate[T], size int) [][]Candidate[T] {
	if len(candidates) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]Candidate[T]{candidates}
	}

	var chunks [][]Candidate[T]
	for start := 0; start < len(candidates); start += size {
		end := min(start+size, len(candidates))
		chunks = append(chunks, candidates[start:end])
	}
	return chunks
}
