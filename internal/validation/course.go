package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const MaxCourseLength = 100

var ErrCourseTooLong = errors.New("course name is too long (max 100 characters)")

// NormalizeCourse trims the name and converts it to NFC so the same course
// typed on different keyboards groups together. Empty input stays empty; the
// store substitutes the default name.
func NormalizeCourse(course string) (string, error) {
	course = norm.NFC.String(strings.TrimSpace(course))
	course = strings.Join(strings.Fields(course), " ")

	if utf8.RuneCountInString(course) > MaxCourseLength {
		return "", ErrCourseTooLong
	}

	return course, nil
}
