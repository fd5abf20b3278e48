// Package progress turns a representative score and a target into a goal
// achievement percentage.
package progress

import (
	"fmt"
	"math"

	"github.com/templui/golfjournal/internal/stats"
)

// Source selects which score stands for the player's current level.
type Source string

const (
	SourceAverage Source = "average"
	SourceBest    Source = "best"
)

const (
	// DefaultStartLevel is the score treated as 0% progress.
	DefaultStartLevel = 110

	// tip threshold on the best score
	shortGameThreshold = 90
)

// Policy is the single progress policy active in a process.
type Policy struct {
	Source     Source
	StartLevel int
}

func DefaultPolicy() Policy {
	return Policy{Source: SourceAverage, StartLevel: DefaultStartLevel}
}

// ParseSource validates a configured score source.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceAverage, SourceBest:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown progress score source %q", s)
	}
}

// Percent computes achievement from startLevel (0%) to target (100%),
// clamped to [0, 100]. A zero-width range is 100 when the score has reached
// the target and 0 otherwise. A score worse than startLevel is always 0 and
// a score at or better than target is always 100, even when the target sits
// above startLevel.
func Percent(score, target, startLevel float64) float64 {
	span := startLevel - target
	if span == 0 {
		if score <= target {
			return 100
		}
		return 0
	}
	if score > startLevel {
		return 0
	}
	if score <= target {
		return 100
	}

	p := (startLevel - score) / span * 100
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

// Result is what the goal tracker renders.
type Result struct {
	Source     Source  `json:"source"`
	Score      float64 `json:"score"`
	Target     int     `json:"target"`
	StartLevel int     `json:"startLevel"`
	Percent    float64 `json:"percent"`
	HasData    bool    `json:"hasData"`
	Tip        string  `json:"tip,omitempty"`
}

// Evaluate applies the policy to a statistics summary.
func (p Policy) Evaluate(summary stats.Summary, target int) Result {
	res := Result{
		Source:     p.Source,
		Target:     target,
		StartLevel: p.StartLevel,
	}
	if !summary.HasData() {
		return res
	}

	res.HasData = true
	switch p.Source {
	case SourceBest:
		if summary.Best != nil {
			res.Score = float64(*summary.Best)
		}
	default:
		res.Score = summary.Average
	}
	res.Percent = Percent(res.Score, float64(target), float64(p.StartLevel))
	res.Tip = Tip(summary.Best)
	return res
}

// Tip is the coaching hint shown under the goal tracker.
func Tip(best *int) string {
	if best == nil {
		return ""
	}
	if *best > shortGameThreshold {
		return "Focus on short-game accuracy inside 100 yards and cut out three-putts."
	}
	return "Work on hitting more fairways off the tee and keep your rhythm steady."
}
