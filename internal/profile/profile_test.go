package profile

import (
	"errors"
	"testing"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want string
	}{
		{
			name: "full profile",
			p:    Profile{Grade: GradeMiddle, Interest: "추리", Level: LevelNormal},
			want: "grade:중등, interest:추리, level:보통",
		},
		{
			name: "empty interest renders sentinel",
			p:    Profile{Grade: GradeElementary, Level: LevelEasy},
			want: "grade:초등, interest:없음, level:쉬움",
		},
		{
			name: "zero value profile",
			p:    Profile{},
			want: "grade:없음, interest:없음, level:없음",
		},
		{
			name: "high grade hard level",
			p:    Profile{Grade: GradeHigh, Interest: "경제", Level: LevelHard},
			want: "grade:고등, interest:경제, level:어려움",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary_NeverBlankFields(t *testing.T) {
	// Out-of-range enum values must still render the sentinel.
	p := Profile{Grade: Grade(99), Level: Level(-1)}
	want := "grade:없음, interest:없음, level:없음"
	if got := p.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in      string
		want    Grade
		wantErr bool
	}{
		{"", GradeNone, false},
		{"없음", GradeNone, false},
		{"초등", GradeElementary, false},
		{"elementary", GradeElementary, false},
		{"중등", GradeMiddle, false},
		{"middle", GradeMiddle, false},
		{"고등", GradeHigh, false},
		{"high", GradeHigh, false},
		{"university", GradeNone, true},
	}

	for _, tt := range tests {
		got, err := ParseGrade(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownGrade) {
				t.Errorf("ParseGrade(%q) error = %v, want ErrUnknownGrade", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseGrade(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGrade(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelNone, false},
		{"쉬움", LevelEasy, false},
		{"easy", LevelEasy, false},
		{"보통", LevelNormal, false},
		{"어려움", LevelHard, false},
		{"hard", LevelHard, false},
		{"expert", LevelNone, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
