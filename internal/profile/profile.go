// Package profile defines the student profile supplied with each chat turn.
//
// A profile biases book recommendations only; it is provided fresh per turn
// and never persisted by the core. Every field renders an explicit sentinel
// ("없음") instead of an empty string so prompt templates never contain
// blank slots.
package profile

import (
	"errors"
	"fmt"
)

// NoneLabel is the sentinel rendered for absent profile fields.
const NoneLabel = "없음"

// Grade is the student's school level.
type Grade int

// Closed set of school levels.
const (
	GradeNone Grade = iota
	GradeElementary
	GradeMiddle
	GradeHigh
)

var gradeLabels = map[Grade]string{
	GradeNone:       NoneLabel,
	GradeElementary: "초등",
	GradeMiddle:     "중등",
	GradeHigh:       "고등",
}

// String returns the Korean label for the grade.
// Unknown values render as the none sentinel.
func (g Grade) String() string {
	if label, ok := gradeLabels[g]; ok {
		return label
	}
	return NoneLabel
}

// Level is the student's self-reported reading level.
type Level int

// Closed set of reading levels.
const (
	LevelNone Level = iota
	LevelEasy
	LevelNormal
	LevelHard
)

var levelLabels = map[Level]string{
	LevelNone:   NoneLabel,
	LevelEasy:   "쉬움",
	LevelNormal: "보통",
	LevelHard:   "어려움",
}

// String returns the Korean label for the reading level.
// Unknown values render as the none sentinel.
func (l Level) String() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return NoneLabel
}

// Profile holds the per-turn student attributes.
// The zero value is a valid "no information" profile.
type Profile struct {
	Grade    Grade
	Interest string // free text, may be empty
	Level    Level
}

// Summary renders the profile block used both in the retrieval query
// augmentation and in the prompt's student-information slot.
// Format: "grade:<g>, interest:<i|없음>, level:<l>".
func (p Profile) Summary() string {
	interest := p.Interest
	if interest == "" {
		interest = NoneLabel
	}
	return fmt.Sprintf("grade:%s, interest:%s, level:%s", p.Grade, interest, p.Level)
}

// ErrUnknownGrade indicates a grade string that is not in the closed set.
var ErrUnknownGrade = errors.New("unknown grade")

// ErrUnknownLevel indicates a reading-level string that is not in the closed set.
var ErrUnknownLevel = errors.New("unknown reading level")

// ParseGrade maps a CLI/user-supplied string to a Grade.
// Accepts the Korean labels and lowercase English keys; empty means none.
func ParseGrade(s string) (Grade, error) {
	switch s {
	case "", NoneLabel, "none":
		return GradeNone, nil
	case "초등", "elementary":
		return GradeElementary, nil
	case "중등", "middle":
		return GradeMiddle, nil
	case "고등", "high":
		return GradeHigh, nil
	}
	return GradeNone, fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// ParseLevel maps a CLI/user-supplied string to a Level.
// Accepts the Korean labels and lowercase English keys; empty means none.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "", NoneLabel, "none":
		return LevelNone, nil
	case "쉬움", "easy":
		return LevelEasy, nil
	case "보통", "normal":
		return LevelNormal, nil
	case "어려움", "hard":
		return LevelHard, nil
	}
	return LevelNone, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
