package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptAll(t *testing.T) {
	ctx := context.Background()

	t.Run("all succeed", func(t *testing.T) {
		candidates := []Candidate[int]{
			{ID: "a", Value: 1},
			{ID: "b", Value: 2},
		}
		var seen []int
		result := AttemptAll(ctx, candidates, func(_ context.Context, value int) error {
			seen = append(seen, value)
			return nil
		})

		assert.Equal(t, 2, result.Attempted)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, []int{1, 2}, seen)
		assert.Empty(t, result.FailedOutcomes())
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "first", Value: "ok"},
			{ID: "second", Value: "boom"},
			{ID: "third", Value: "ok"},
		}
		var attempted []string
		result := AttemptAll(ctx, candidates, func(_ context.Context, value string) error {
			attempted = append(attempted, value)
			if value == "boom" {
				return errors.New("dispatch failed")
			}
			return nil
		})

		assert.Equal(t, 3, result.Attempted)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		assert.Len(t, attempted, 3, "every candidate must be attempted")

		failed := result.FailedOutcomes()
		require.Len(t, failed, 1)
		assert.Equal(t, "second", failed[0].ID)
	})

	t.Run("panicking action is recovered and counted as failure", func(t *testing.T) {
		candidates := []Candidate[int]{
			{ID: "a", Value: 1},
			{ID: "b", Value: 2},
			{ID: "c", Value: 3},
		}
		result := AttemptAll(ctx, candidates, func(_ context.Context, value int) error {
			if value == 2 {
				panic("bad record")
			}
			return nil
		})

		assert.Equal(t, 3, result.Attempted)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.FailedOutcomes(), 1)
		assert.Contains(t, result.FailedOutcomes()[0].Err.Error(), "panicked")
	})

	t.Run("empty candidate list", func(t *testing.T) {
		result := AttemptAll(ctx, nil, func(_ context.Context, _ int) error {
			t.Fatal("action must not be called")
			return nil
		})
		assert.Equal(t, BatchResult{Outcomes: []Outcome{}}, result)
	})
}

func TestBatchResult_Merge(t *testing.T) {
	first := AttemptAll(context.Background(), []Candidate[int]{{ID: "a", Value: 1}}, func(_ context.Context, _ int) error {
		return nil
	})
	second := AttemptAll(context.Background(), []Candidate[int]{{ID: "b", Value: 2}}, func(_ context.Context, _ int) error {
		return errors.New("nope")
	})

	first.Merge(second)
	assert.Equal(t, 2, first.Attempted)
	assert.Equal(t, 1, first.Succeeded)
	assert.Equal(t, 1, first.Failed)
	assert.Len(t, first.Outcomes, 2)
}

func TestChunk(t *testing.T) {
	makeCandidates := func(n int) []Candidate[int] {
		candidates := make([]Candidate[int], n)
		for i := range candidates {
			candidates[i] = Candidate[int]{ID: fmt.Sprintf("%d", i), Value: i}
		}
		return candidates
	}

	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{name: "empty", count: 0, size: 10, wantSizes: nil},
		{name: "single partial chunk", count: 3, size: 10, wantSizes: []int{3}},
		{name: "exact chunks", count: 6, size: 3, wantSizes: []int{3, 3}},
		{name: "trailing partial chunk", count: 7, size: 3, wantSizes: []int{3, 3, 1}},
		{name: "non-positive size keeps one chunk", count: 5, size: 0, wantSizes: []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(makeCandidates(tt.count), tt.size)
			require.Len(t, chunks, len(tt.wantSizes))
			total := 0
			for i, chunk := range chunks {
				assert.Len(t, chunk, tt.wantSizes[i])
				total += len(chunk)
			}
			assert.Equal(t, tt.count, total)
		})
	}
}
