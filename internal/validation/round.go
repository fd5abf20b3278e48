package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/templui/golfjournal/internal/model"
)

const (
	DateLayout = "2006-01-02"

	MinTargetScore = 18
	MaxTargetScore = 200
)

var (
	ErrInvalidHoleScore   = errors.New("hole score must be a whole number of strokes")
	ErrInvalidDate        = errors.New("date must look like 2024-05-31")
	ErrInvalidTargetScore = fmt.Errorf("target score must be a whole number between %d and %d", MinTargetScore, MaxTargetScore)
	ErrTooManyHoles       = fmt.Errorf("a scorecard has at most %d holes", model.HoleCount)
)

var (
	dateParser = newDateParser()
	isoShape   = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
)

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseHoleScore reads one scorecard cell. Blank means the hole is unset.
func ParseHoleScore(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, ErrInvalidHoleScore
	}

	return &n, nil
}

// ParseHoleScores reads up to 18 cells. Missing trailing cells are unset.
func ParseHoleScores(raw []string) (model.HoleScores, error) {
	if len(raw) > model.HoleCount {
		return nil, ErrTooManyHoles
	}

	scores := make(model.HoleScores, model.HoleCount)
	for i, cell := range raw {
		score, err := ParseHoleScore(cell)
		if err != nil {
			return nil, fmt.Errorf("hole %d: %w", i+1, err)
		}
		scores[i] = score
	}

	return scores, nil
}

// ParseDate accepts an ISO date, or a phrase such as "yesterday" resolved
// against now. The result is always an ISO date. A phrase must be matched
// in full; a partial match is rejected rather than read as today.
func ParseDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidDate
	}

	t, err := time.Parse(DateLayout, raw)
	if err == nil {
		return t.Format(DateLayout), nil
	}

	// Looks like a date but is not a real one (2024-02-30)
	if isoShape.MatchString(raw) {
		return "", ErrInvalidDate
	}

	phrase := strings.ToLower(raw)
	r, err := dateParser.Parse(phrase, now)
	if err != nil || r == nil {
		return "", ErrInvalidDate
	}
	if r.Index != 0 || strings.TrimSpace(r.Text) != phrase {
		return "", ErrInvalidDate
	}

	return r.Time.Format(DateLayout), nil
}

// ParseTargetScore accepts only a whole number in range. Anything else is
// rejected before a write is issued.
func ParseTargetScore(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidTargetScore
	}

	err = ValidateTargetScore(n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

func ValidateTargetScore(n int) error {
	if n < MinTargetScore || n > MaxTargetScore {
		return ErrInvalidTargetScore
	}
	return nil
}
