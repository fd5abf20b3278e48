package model

import "time"

const (
	// DefaultTargetScore applies when a user has never set a target.
	DefaultTargetScore = 85
)

// GoalSetting is the single settings record a user owns.
type GoalSetting struct {
	UserID      string     `json:"userId"`
	TargetScore int        `json:"targetScore"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// GoalSettingRow is the stored shape. Every column except the key is optional.
type GoalSettingRow struct {
	UserID      string     `db:"user_id"`
	TargetScore *int       `db:"target_score"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// Resolve applies defaults to a stored row. A nil row means the user has no
// settings document yet.
func (row *GoalSettingRow) Resolve(userID string, defaultTarget int) GoalSetting {
	setting := GoalSetting{
		UserID:      userID,
		TargetScore: defaultTarget,
	}
	if row == nil {
		return setting
	}
	if row.TargetScore != nil {
		setting.TargetScore = *row.TargetScore
	}
	setting.UpdatedAt = row.UpdatedAt
	return setting
}

// GoalSettingPatch is a partial write. Nil fields are left untouched.
type GoalSettingPatch struct {
	TargetScore *int
}
