package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxPracticeTitleLength       = 60
	MaxPracticeDescriptionLength = 140
)

var (
	ErrPracticeTitleRequired = errors.New("practice goal needs a title")
	ErrPracticeTitleTooLong  = errors.New("practice goal title is too long (max 60 characters)")
	ErrPracticeNoteTooLong   = errors.New("practice goal description is too long (max 140 characters)")
)

// NormalizePracticeGoal cleans up a title and description the way course
// names are cleaned up.
func NormalizePracticeGoal(title, description string) (string, string, error) {
	title = collapse(title)
	description = collapse(description)

	if title == "" {
		return "", "", ErrPracticeTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxPracticeTitleLength {
		return "", "", ErrPracticeTitleTooLong
	}
	if utf8.RuneCountInString(description) > MaxPracticeDescriptionLength {
		return "", "", ErrPracticeNoteTooLong
	}

	return title, description, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
