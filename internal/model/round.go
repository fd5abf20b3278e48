package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// HoleCount is the number of holes on a scorecard.
	HoleCount = 18

	// DefaultCourse is shown for rounds saved without a course name.
	DefaultCourse = "unnamed"
)

// HoleScores holds one entry per hole. A nil entry is an unset hole and
// counts as 0 toward the total.
type HoleScores []*int

// Total sums the strokes, treating unset holes as 0.
func (h HoleScores) Total() int {
	total := 0
	for _, s := range h {
		if s != nil {
			total += *s
		}
	}
	return total
}

// Played returns the number of holes with a recorded score.
func (h HoleScores) Played() int {
	n := 0
	for _, s := range h {
		if s != nil {
			n++
		}
	}
	return n
}

// Value stores the scorecard as a JSON array, unset holes as null.
func (h HoleScores) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]*int(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (h *HoleScores) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*h = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("hole scores: unsupported type %T", src)
	}

	var scores []*int
	err := json.Unmarshal(raw, &scores)
	if err != nil {
		return fmt.Errorf("hole scores: %w", err)
	}
	*h = scores
	return nil
}

// Round is one played round of golf. Rounds are immutable once saved.
type Round struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"userId"`
	Date       string     `db:"date" json:"date"`
	Course     string     `db:"course" json:"course"`
	Scores     HoleScores `db:"scores" json:"scores"`
	TotalScore int        `db:"total_score" json:"totalScore"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// CourseName returns the course, falling back to DefaultCourse.
func (r *Round) CourseName() string {
	if r.Course == "" {
		return DefaultCourse
	}
	return r.Course
}

// Check verifies the record read back from storage.
func (r *Round) Check() error {
	if len(r.Scores) != HoleCount {
		return fmt.Errorf("round %s: expected %d holes, got %d", r.ID, HoleCount, len(r.Scores))
	}
	if r.TotalScore != r.Scores.Total() {
		return fmt.Errorf("round %s: total %d does not match scorecard %d", r.ID, r.TotalScore, r.Scores.Total())
	}
	return nil
}

// RoundDraft is the user-supplied part of a round, before the store assigns
// an ID and creation time.
type RoundDraft struct {
	Date   string
	Course string
	Scores HoleScores
}

var ErrInvalidScorecard = errors.New("scorecard must have 18 holes")

// NewRound builds a round from a draft. The total is computed here and never
// taken from the caller.
func NewRound(id, userID string, draft RoundDraft, createdAt time.Time) (*Round, error) {
	if len(draft.Scores) != HoleCount {
		return nil, ErrInvalidScorecard
	}

	course := draft.Course
	if course == "" {
		course = DefaultCourse
	}

	scores := make(HoleScores, HoleCount)
	copy(scores, draft.Scores)

	return &Round{
		ID:         id,
		UserID:     userID,
		Date:       draft.Date,
		Course:     course,
		Scores:     scores,
		TotalScore: scores.Total(),
		CreatedAt:  createdAt,
	}, nil
}
