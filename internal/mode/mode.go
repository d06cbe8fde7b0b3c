// Package mode defines the closed set of interaction modes.
//
// A mode selects the guidance fragment appended to the base persona and the
// query-rewrite policy applied before retrieval. Modes are a compile-time
// checked enum with a lookup table, not string matching: adding a mode means
// adding a constant and a table entry.
package mode

import (
	"errors"
	"fmt"
)

// Mode is the interaction category selected by the caller before each turn.
// Exactly one mode is active per turn.
type Mode int

// Closed set of interaction modes.
const (
	// LibraryInfo answers questions about library procedures and rules.
	LibraryInfo Mode = iota

	// BookRecommendation recommends books using the student profile.
	BookRecommendation

	// ReadingActivity helps with reading, writing, and discussion activities.
	ReadingActivity
)

// ErrUnknownMode indicates a mode string that is not in the closed set.
var ErrUnknownMode = errors.New("unknown mode")

// entry carries everything mode-dependent: the user-facing Korean label,
// the guidance fragment appended to the base persona, and whether the
// retrieval query is augmented with the student profile.
type entry struct {
	label          string
	guidance       string
	appendsProfile bool
}

var table = map[Mode]entry{
	LibraryInfo: {
		label: "도서관 이용 안내",
		guidance: `[추가 지침]
- 도서관 이용 안내 질문에는 절차와 규정을 중심으로 설명해줘.
- 단계별(①②③)로 정리하고, 불필요한 감상적 표현은 줄여줘.
- 학생이 바로 행동으로 옮길 수 있도록 구체적으로 안내해줘.`,
	},
	BookRecommendation: {
		label: "책 추천",
		guidance: `[추가 지침]
- 책 추천 질문에는 학생 정보(학년/관심/읽기수준)를 적극 반영해줘.
- 추천 이유를 반드시 함께 제시해줘.
- 한 번에 너무 많은 책을 나열하지 말고 3권 내외로 추천해줘.`,
		appendsProfile: true,
	},
	ReadingActivity: {
		label: "독서활동",
		guidance: `[추가 지침]
- 독서활동 질문에는 실제 활용 가능한 예시를 포함해줘.
- 읽기·쓰기·토론 중 어떤 활동인지 구분해서 설명해줘.
- 학생이 바로 써먹을 수 있는 문장 예시나 질문 예시를 제시해줘.`,
	},
}

// Label returns the user-facing Korean label.
// Unknown modes return an empty string.
func (m Mode) Label() string {
	return table[m].label
}

// Guidance returns the mode-specific instruction fragment appended to the
// base persona. Unknown modes return an empty string rather than erroring.
func (m Mode) Guidance() string {
	return table[m].guidance
}

// AppendsProfile reports whether the retrieval query for this mode is
// augmented with the student profile block. Only BookRecommendation does:
// profile tokens would pollute library-procedure and reading-activity lookups.
func (m Mode) AppendsProfile() bool {
	return table[m].appendsProfile
}

// Valid reports whether m is a member of the closed set.
func (m Mode) Valid() bool {
	_, ok := table[m]
	return ok
}

// String returns the Korean label, or a diagnostic form for unknown modes.
func (m Mode) String() string {
	if s, ok := table[m]; ok {
		return s.label
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// All returns every mode in declaration order.
func All() []Mode {
	return []Mode{LibraryInfo, BookRecommendation, ReadingActivity}
}

// Parse maps a CLI/user-supplied string to a Mode.
// Accepts the Korean labels and lowercase English keys.
func Parse(s string) (Mode, error) {
	switch s {
	case "도서관 이용 안내", "library", "info":
		return LibraryInfo, nil
	case "책 추천", "recommend", "recommendation":
		return BookRecommendation, nil
	case "독서활동", "activity", "reading":
		return ReadingActivity, nil
	}
	return LibraryInfo, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
