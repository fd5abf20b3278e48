package model

import (
	"fmt"
	"time"
)

// PracticeGoal is one drill on a user's weekly practice checklist.
type PracticeGoal struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon" json:"icon"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PracticeEntry records whether a goal was done in one ISO week.
type PracticeEntry struct {
	ID          string     `db:"id"`
	GoalID      string     `db:"goal_id"`
	Week        string     `db:"week"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// PracticeItem is a goal with its state for the current week.
type PracticeItem struct {
	Goal    *PracticeGoal `json:"goal"`
	Checked bool          `json:"checked"`
}

// PracticeChecklist is the week's list, in display order.
type PracticeChecklist struct {
	Week  string         `json:"week"`
	Items []PracticeItem `json:"items"`
}

// Done counts the checked items.
func (c PracticeChecklist) Done() int {
	n := 0
	for _, item := range c.Items {
		if item.Checked {
			n++
		}
	}
	return n
}

// PracticeWeek is the ISO week key, for example "2024-W11".
func PracticeWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// DefaultPracticeGoals seed a new checklist.
var DefaultPracticeGoals = []PracticeGoal{
	{Title: "Putting practice", Description: "At least three practice-green sessions a week", Icon: "🎯"},
	{Title: "Driving accuracy", Description: "Raise fairways hit to a steady 70%", Icon: "🏹"},
	{Title: "Short game", Description: "Sharpen distance control inside 50 yards", Icon: "📍"},
}
