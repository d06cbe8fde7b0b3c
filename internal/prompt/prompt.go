// Package prompt assembles the instruction document sent to the language model.
//
// Composition is pure: identical inputs always produce byte-identical output.
// All randomness, retrieval, and model interaction live elsewhere; this
// package only fills a fixed template.
package prompt

import "strings"

// BasePersona is the fixed persona that opens every prompt. It defines the
// assistant's role, tone, and the instruction to admit missing information
// when the reference documents do not cover the question.
const BasePersona = `너는 학교도서관에서 학생들의 독서활동을 도와주는 도우미야.
아래 '참고 문서(context)' 내용을 바탕으로, 학생의 질문에 대해
친절하고 구체적인 답변을 한국어로 작성해줘.

가능하면:
- 도서관 이용 규정, 대출/반납/연장 방법
- 책 고르는 방법, 독후감 작성법, 독서 토론 방법
등을 중심으로 설명해 줘.

만약 문서에 정보가 없으면 모르는 부분은 솔직하게 모른다고 말해.`

// Slots are filled in fixed order; section headers match the template the
// document collection was curated against.
const (
	sectionMode     = "[현재 기능]"
	sectionProfile  = "[학생 정보]"
	sectionContext  = "[참고 문서]"
	sectionQuestion = "[학생의 질문]"
)

// ModeInfo carries the mode-dependent slots of the template.
// Defined here (by the consumer) so the composer does not depend on the
// mode package; any type with a label and guidance fragment can fill it.
type ModeInfo interface {
	Label() string
	Guidance() string
}

// Compose renders the full instruction document.
//
// Slot order: base persona, mode guidance, mode label, profile summary,
// retrieved passages (store order, one per paragraph, no deduplication),
// and the literal question text as the user typed it. The question slot is
// never the rewritten retrieval query.
//
// An empty passage list renders an empty context section — the persona
// instructs the model to say so when it lacks grounding information.
func Compose(m ModeInfo, profileSummary string, passages []string, question string) string {
	var b strings.Builder

	b.WriteString(BasePersona)
	b.WriteString("\n\n")
	b.WriteString(m.Guidance())
	b.WriteString("\n\n")
	b.WriteString(sectionMode)
	b.WriteString("\n")
	b.WriteString(m.Label())
	b.WriteString("\n\n")
	b.WriteString(sectionProfile)
	b.WriteString("\n")
	b.WriteString(profileSummary)
	b.WriteString("\n\n")
	b.WriteString(sectionContext)
	b.WriteString("\n")
	b.WriteString(strings.Join(passages, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(sectionQuestion)
	b.WriteString("\n")
	b.WriteString(question)

	return b.String()
}
