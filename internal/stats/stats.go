// Package stats aggregates a user's round history into the numbers shown on
// the statistics dashboard. Everything here is pure and total over its input.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/templui/golfjournal/internal/model"
)

const (
	// TrendSize is how many recent rounds the trend series covers.
	TrendSize = 5

	// handicap estimate constants, against a par-72 course
	coursePar      = 72
	handicapFactor = 0.8
)

// Summary is the statistics dashboard for one snapshot of rounds.
type Summary struct {
	RoundCount   int     `json:"roundCount"`
	Average      float64 `json:"average"`
	Best         *int    `json:"best"` // nil when there are no rounds
	Trend        []int   `json:"trend"`
	MonthlyCount int     `json:"monthlyCount"`
	Handicap     float64 `json:"handicap"`
}

// HasData reports whether any rounds were aggregated.
func (s Summary) HasData() bool {
	return s.RoundCount > 0
}

// Compute aggregates rounds in any order. now decides the current month.
func Compute(rounds []*model.Round, now time.Time) Summary {
	avg := Average(rounds)
	return Summary{
		RoundCount:   len(rounds),
		Average:      avg,
		Best:         Best(rounds),
		Trend:        Trend(rounds, TrendSize),
		MonthlyCount: MonthlyCount(rounds, now),
		Handicap:     Handicap(avg, len(rounds)),
	}
}

// Average is the mean total score rounded to one decimal, 0 for no rounds.
func Average(rounds []*model.Round) float64 {
	if len(rounds) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rounds {
		sum += r.TotalScore
	}
	return roundTenth(float64(sum) / float64(len(rounds)))
}

// Best is the lowest total score, nil for no rounds.
func Best(rounds []*model.Round) *int {
	if len(rounds) == 0 {
		return nil
	}
	best := rounds[0].TotalScore
	for _, r := range rounds[1:] {
		if r.TotalScore < best {
			best = r.TotalScore
		}
	}
	return &best
}

// Trend returns the totals of the n most recently created rounds, oldest
// first.
func Trend(rounds []*model.Round, n int) []int {
	if n <= 0 || len(rounds) == 0 {
		return []int{}
	}

	recent := make([]*model.Round, len(rounds))
	copy(recent, rounds)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > n {
		recent = recent[:n]
	}

	trend := make([]int, len(recent))
	for i, r := range recent {
		trend[len(recent)-1-i] = r.TotalScore
	}
	return trend
}

// MonthlyCount counts rounds dated in the calendar month of now.
func MonthlyCount(rounds []*model.Round, now time.Time) int {
	month := now.Format("2006-01")
	count := 0
	for _, r := range rounds {
		if strings.HasPrefix(r.Date, month) {
			count++
		}
	}
	return count
}

// Handicap is a rough handicap estimate derived from the average.
func Handicap(average float64, roundCount int) float64 {
	if roundCount == 0 || average <= coursePar {
		return 0
	}
	return roundTenth((average - coursePar) * handicapFactor)
}

func roundTenth(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}
