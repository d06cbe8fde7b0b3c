// Package query derives the retrieval query from a user utterance.
//
// The rewrite is the only place where the text sent to the document store
// may differ from the text shown to the model as the question. The rewrite
// affects retrieval only; the prompt composer always receives the original
// utterance in the question slot.
package query

import (
	"github.com/dokseo0/dokseo/internal/mode"
	"github.com/dokseo0/dokseo/internal/profile"
)

// profileBlockPrefix introduces the student-information block appended to
// recommendation queries.
const profileBlockPrefix = "[학생 정보] "

// ForRetrieval returns the text used for the document-store lookup.
//
// Only BookRecommendation augments the utterance: the profile summary is
// appended after a blank line so it biases nearest-neighbor search toward
// grade- and interest-appropriate passages. Every other mode returns the
// utterance unchanged — no stemming, no normalization.
func ForRetrieval(m mode.Mode, utterance string, p profile.Profile) string {
	if !m.AppendsProfile() {
		return utterance
	}
	return utterance + "\n\n" + profileBlockPrefix + p.Summary()
}
