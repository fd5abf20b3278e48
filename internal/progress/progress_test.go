package progress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/golfjournal/internal/stats"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name                      string
		score, target, startLevel float64
		want                      float64
	}{
		{name: "at target", score: 85, target: 85, startLevel: 120, want: 100},
		{name: "at start", score: 120, target: 80, startLevel: 120, want: 0},
		{name: "halfway", score: 100, target: 80, startLevel: 120, want: 50},
		{name: "worse than start clamps", score: 130, target: 80, startLevel: 120, want: 0},
		{name: "better than target clamps", score: 70, target: 80, startLevel: 120, want: 100},
		{name: "degenerate reached", score: 100, target: 110, startLevel: 110, want: 100},
		{name: "degenerate equal", score: 110, target: 110, startLevel: 110, want: 100},
		{name: "degenerate not reached", score: 111, target: 110, startLevel: 110, want: 0},
		{name: "target above start, worse than start", score: 130, target: 150, startLevel: 110, want: 0},
		{name: "target above start, better than start", score: 90, target: 150, startLevel: 110, want: 100},
		{name: "target above start, at start", score: 110, target: 150, startLevel: 110, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.score, tt.target, tt.startLevel)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestPercent_MonotonicInScore(t *testing.T) {
	prev := math.Inf(1)
	for score := 60.0; score <= 140; score += 0.5 {
		got := Percent(score, 85, 110)
		assert.LessOrEqual(t, got, prev, "score %v", score)
		prev = got
	}
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("best")
	require.NoError(t, err)
	assert.Equal(t, SourceBest, s)

	_, err = ParseSource("median")
	require.Error(t, err)
}

func TestPolicy_Evaluate(t *testing.T) {
	best := 88
	summary := stats.Summary{RoundCount: 3, Average: 91.3, Best: &best}

	t.Run("average source", func(t *testing.T) {
		res := DefaultPolicy().Evaluate(summary, 85)
		require.True(t, res.HasData)
		assert.Equal(t, 91.3, res.Score)
		assert.InDelta(t, (110-91.3)/(110-85)*100, res.Percent, 1e-9)
		assert.NotEmpty(t, res.Tip)
	})

	t.Run("best source", func(t *testing.T) {
		res := Policy{Source: SourceBest, StartLevel: 120}.Evaluate(summary, 80)
		assert.Equal(t, 88.0, res.Score)
		assert.InDelta(t, 80, res.Percent, 1e-9)
	})

	t.Run("no data", func(t *testing.T) {
		res := DefaultPolicy().Evaluate(stats.Summary{}, 85)
		assert.False(t, res.HasData)
		assert.Equal(t, 0.0, res.Percent)
		assert.Empty(t, res.Tip)
	})
}

func TestTip(t *testing.T) {
	high, low := 95, 82
	assert.Contains(t, Tip(&high), "short-game")
	assert.Contains(t, Tip(&low), "fairways")
	assert.Empty(t, Tip(nil))
}
