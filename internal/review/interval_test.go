package review

import (
	"testing"
	"time"
)

func TestNextReviewDate(t *testing.T) {
	lastReview := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		accuracyPercent float64
		difficulty      Difficulty
		reviewCount     int
		expectedHours   int
	}{
		{
			name:            "easy first review with high accuracy",
			accuracyPercent: 95,
			difficulty:      DifficultyEasy,
			reviewCount:     1,
			expectedHours:   125, // round(96 * 1 * 1.3)
		},
		{
			name:            "medium first review neutral accuracy",
			accuracyPercent: 75,
			difficulty:      DifficultyMedium,
			reviewCount:     1,
			expectedHours:   48,
		},
		{
			name:            "hard first review low accuracy",
			accuracyPercent: 40,
			difficulty:      DifficultyHard,
			reviewCount:     1,
			expectedHours:   14, // round(24 * 1 * 0.6)
		},
		{
			name:            "unknown accuracy is neutral",
			accuracyPercent: AccuracyUnknown,
			difficulty:      DifficultyMedium,
			reviewCount:     2,
			expectedHours:   96, // 48 * 2.0 * 1.0
		},
		{
			name:            "accuracy 80 boundary",
			accuracyPercent: 80,
			difficulty:      DifficultyMedium,
			reviewCount:     1,
			expectedHours:   53, // round(48 * 1.1)
		},
		{
			name:            "accuracy 60 boundary",
			accuracyPercent: 60,
			difficulty:      DifficultyMedium,
			reviewCount:     1,
			expectedHours:   38, // round(48 * 0.8)
		},
		{
			name:            "growth capped at 10x",
			accuracyPercent: 75,
			difficulty:      DifficultyHard,
			reviewCount:     20, // 1.5^19 far above the cap
			expectedHours:   240,
		},
		{
			name:            "interval capped at 720 hours",
			accuracyPercent: 95,
			difficulty:      DifficultyEasy,
			reviewCount:     5, // 96 * 2.5^4 * 1.3 would be far above 720
			expectedHours:   720,
		},
		{
			name:            "zero review count treated as first review",
			accuracyPercent: 75,
			difficulty:      DifficultyEasy,
			reviewCount:     0,
			expectedHours:   96,
		},
		{
			name:            "negative review count treated as first review",
			accuracyPercent: 75,
			difficulty:      DifficultyEasy,
			reviewCount:     -3,
			expectedHours:   96,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReviewDate(lastReview, tt.accuracyPercent, tt.difficulty, tt.reviewCount)
			want := lastReview.Add(time.Duration(tt.expectedHours) * time.Hour)
			if !got.Equal(want) {
				t.Errorf("NextReviewDate() = %v (%vh), want %v (%vh)",
					got, got.Sub(lastReview).Hours(), want, tt.expectedHours)
			}
		})
	}
}

func TestNextReviewDate_MonotonicInReviewCount(t *testing.T) {
	lastReview := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, difficulty := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		previous := time.Time{}
		for count := 1; count <= 12; count++ {
			got := NextReviewDate(lastReview, 75, difficulty, count)
			if !previous.IsZero() && got.Before(previous) {
				t.Errorf("interval for %s decreased at reviewCount=%d: %v before %v",
					difficulty, count, got, previous)
			}
			if got.Sub(lastReview) > 720*time.Hour {
				t.Errorf("interval for %s at reviewCount=%d exceeds 720h cap", difficulty, count)
			}
			previous = got
		}
	}
}

func TestNextReviewDate_ZeroLastReviewUsesNow(t *testing.T) {
	before := time.Now()
	got := NextReviewDate(time.Time{}, 75, DifficultyMedium, 1)
	after := time.Now()

	if got.Before(before.Add(48*time.Hour)) || got.After(after.Add(48*time.Hour)) {
		t.Errorf("NextReviewDate with zero lastReview = %v, want ~now+48h", got)
	}
}

func TestNextReviewDate_Idempotent(t *testing.T) {
	lastReview := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	first := NextReviewDate(lastReview, 88, DifficultyHard, 3)
	second := NextReviewDate(lastReview, 88, DifficultyHard, 3)
	if !first.Equal(second) {
		t.Errorf("NextReviewDate not idempotent: %v != %v", first, second)
	}
}
