package query

import (
	"strings"
	"testing"

	"github.com/dokseo0/dokseo/internal/mode"
	"github.com/dokseo0/dokseo/internal/profile"
)

func TestForRetrieval_IdentityOutsideRecommendation(t *testing.T) {
	p := profile.Profile{Grade: profile.GradeMiddle, Interest: "역사", Level: profile.LevelHard}
	utterances := []string{
		"대출 기간이 며칠이야?",
		"독후감 서론을 어떻게 시작하면 좋을까?",
		"", // empty passes through too
	}

	for _, m := range []mode.Mode{mode.LibraryInfo, mode.ReadingActivity} {
		for _, u := range utterances {
			if got := ForRetrieval(m, u, p); got != u {
				t.Errorf("ForRetrieval(%v, %q) = %q, want input unchanged", m, u, got)
			}
		}
	}
}

func TestForRetrieval_RecommendationAppendsProfile(t *testing.T) {
	p := profile.Profile{Grade: profile.GradeMiddle, Interest: "추리", Level: profile.LevelNormal}
	got := ForRetrieval(mode.BookRecommendation, "추리소설 추천해줘", p)

	want := "추리소설 추천해줘\n\n[학생 정보] grade:중등, interest:추리, level:보통"
	if got != want {
		t.Errorf("ForRetrieval() = %q, want %q", got, want)
	}
}

func TestForRetrieval_UtteranceIsAlwaysPrefix(t *testing.T) {
	p := profile.Profile{Grade: profile.GradeHigh}
	utterance := "과학책 추천해줘"

	got := ForRetrieval(mode.BookRecommendation, utterance, p)
	if !strings.HasPrefix(got, utterance) {
		t.Errorf("rewritten query %q does not start with utterance %q", got, utterance)
	}
	if !strings.Contains(got, "\n\n[학생 정보] ") {
		t.Errorf("rewritten query %q missing profile block separator", got)
	}
}

func TestForRetrieval_EmptyInterestRendersSentinel(t *testing.T) {
	p := profile.Profile{Grade: profile.GradeElementary, Interest: "", Level: profile.LevelEasy}
	got := ForRetrieval(mode.BookRecommendation, "재미있는 책 추천해줘", p)

	if strings.Contains(got, "interest:,") {
		t.Errorf("empty interest rendered as blank field: %q", got)
	}
	if !strings.Contains(got, "interest:없음") {
		t.Errorf("empty interest should render 없음 sentinel, got %q", got)
	}
}
