package cadence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cadence
		wantErr bool
	}{
		{
			name:  "plain duration",
			input: "15m",
			want:  Fixed{Period: 15 * time.Minute},
		},
		{
			name:  "at-every duration",
			input: "@every 1h30m",
			want:  Fixed{Period: 90 * time.Minute},
		},
		{
			name:  "cron expression",
			input: "0 7 * * *",
		},
		{
			name:    "empty expression",
			input:   "",
			wantErr: true,
		},
		{
			name:    "negative duration",
			input:   "-5m",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "whenever",
			wantErr: true,
		},
		{
			name:    "six-field cron rejected",
			input:   "0 0 7 * * *",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCadence)
				return
			}
			require.NoError(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFixed_Next(t *testing.T) {
	cadence, err := NewFixed(30 * time.Minute)
	require.NoError(t, err)

	after := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	next := cadence.Next(after)
	assert.Equal(t, after.Add(30*time.Minute), next)
	assert.True(t, next.After(after), "next firing must be strictly after the previous run")
}

func TestCalendar_Next(t *testing.T) {
	cadence, err := NewCalendar("0 7 * * *")
	require.NoError(t, err)

	t.Run("before today's firing", func(t *testing.T) {
		after := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC), cadence.Next(after))
	})

	t.Run("after today's firing rolls to tomorrow", func(t *testing.T) {
		after := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC), cadence.Next(after))
	})

	t.Run("exactly at the firing time rolls forward", func(t *testing.T) {
		after := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
		next := cadence.Next(after)
		assert.True(t, next.After(after))
	})
}

func TestFixed_String(t *testing.T) {
	cadence, err := Parse("@every 15m")
	require.NoError(t, err)
	assert.Equal(t, "@every 15m0s", cadence.String())

	calendar, err := Parse("*/10 * * * *")
	require.NoError(t, err)
	assert.Equal(t, "*/10 * * * *", calendar.String())
}
