package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHoleScore(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *int
		wantErr bool
	}{
		{name: "blank is unset", raw: "", want: nil},
		{name: "spaces are unset", raw: "   ", want: nil},
		{name: "number", raw: "4", want: ptr(4)},
		{name: "zero", raw: "0", want: ptr(0)},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "fraction", raw: "4.5", wantErr: true},
		{name: "letters", raw: "four", wantErr: true},
		{name: "high", raw: "25", want: ptr(25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHoleScore(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHoleScore)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHoleScores(t *testing.T) {
	raw := strings.Split("4,5,4,3,5,4,4,5,4,4,4,3,5,4,4,5,4,4", ",")
	scores, err := ParseHoleScores(raw)
	require.NoError(t, err)
	assert.Equal(t, 76, scores.Total())

	raw[17] = ""
	scores, err = ParseHoleScores(raw)
	require.NoError(t, err)
	assert.Equal(t, 72, scores.Total())
	assert.Equal(t, 17, scores.Played())

	scores, err = ParseHoleScores([]string{"4", "4"})
	require.NoError(t, err)
	assert.Len(t, scores, 18)
	assert.Equal(t, 8, scores.Total())

	_, err = ParseHoleScores([]string{"4", "x"})
	assert.ErrorIs(t, err, ErrInvalidHoleScore)
	assert.Contains(t, err.Error(), "hole 2")

	_, err = ParseHoleScores(make([]string, 19))
	assert.ErrorIs(t, err, ErrTooManyHoles)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	got, err := ParseDate("2024-01-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got)

	got, err = ParseDate("yesterday", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", got)

	got, err = ParseDate("Today", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got)

	_, err = ParseDate("", now)
	assert.ErrorIs(t, err, ErrInvalidDate)

	for _, raw := range []string{"banana", "2024-13-45", "2024-02-30", "banana tomorrow", "yesterday or so"} {
		_, err = ParseDate(raw, now)
		assert.ErrorIs(t, err, ErrInvalidDate, raw)
	}
}

func TestParseTargetScore(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "85", want: 85},
		{raw: " 72 ", want: 72},
		{raw: "18", want: 18},
		{raw: "200", want: 200},
		{raw: "17", wantErr: true},
		{raw: "201", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "85.5", wantErr: true},
		{raw: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTargetScore(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTargetScore)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCourse(t *testing.T) {
	got, err := NormalizeCourse("  Pebble   Beach ")
	require.NoError(t, err)
	assert.Equal(t, "Pebble Beach", got)

	// "e" followed by a combining acute accent composes to a single rune.
	got, err = NormalizeCourse("Le Golf National e\u0301te\u0301")
	require.NoError(t, err)
	assert.Equal(t, "Le Golf National \u00e9t\u00e9", got)

	got, err = NormalizeCourse("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizeCourse(strings.Repeat("a", MaxCourseLength+1))
	assert.ErrorIs(t, err, ErrCourseTooLong)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("Ada <ada@example.com>"), ErrInvalidEmail)
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

func ptr(v int) *int { return &v }

func TestNormalizePracticeGoal(t *testing.T) {
	title, description, err := NormalizePracticeGoal("  Lag   putting ", " 20 putts from 30 feet ")
	require.NoError(t, err)
	assert.Equal(t, "Lag putting", title)
	assert.Equal(t, "20 putts from 30 feet", description)

	_, _, err = NormalizePracticeGoal("   ", "")
	assert.ErrorIs(t, err, ErrPracticeTitleRequired)

	_, _, err = NormalizePracticeGoal(strings.Repeat("a", MaxPracticeTitleLength+1), "")
	assert.ErrorIs(t, err, ErrPracticeTitleTooLong)

	_, _, err = NormalizePracticeGoal("Chipping", strings.Repeat("a", MaxPracticeDescriptionLength+1))
	assert.ErrorIs(t, err, ErrPracticeNoteTooLong)
}
