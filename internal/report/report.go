// Package report renders a chat transcript as a downloadable PDF.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dokseo0/dokseo/internal/session"
)

// DefaultTitle heads every transcript report.
const DefaultTitle = "학교도서관 독서활동 지원 챗봇 리포트"

// Role labels as they appear in the rendered report.
const (
	studentLabel   = "[학생]"
	assistantLabel = "[챗봇]"
)

// ErrFontUnavailable indicates the configured TTF font could not be loaded.
var ErrFontUnavailable = errors.New("report font unavailable")

// Meta is the report header block below the title.
type Meta struct {
	// ModeLabel is the conversation mode, e.g. "책 추천".
	ModeLabel string

	// ProfileSummary is the student profile line, e.g.
	// "grade:중등, interest:추리, level:보통".
	ProfileSummary string

	// GeneratedAt stamps the report. Zero means time.Now().
	GeneratedAt time.Time
}

// Renderer builds transcript PDFs.
//
// Korean text needs a UTF-8 TTF font; without one the renderer falls back
// to a core Latin font and Hangul will not display. Construction fails
// loudly when a configured font path cannot be read, so the fallback only
// happens by explicit choice.
type Renderer struct {
	fontName  string
	fontBytes []byte
}

// NewRenderer creates a Renderer using the TTF font at fontPath. An empty
// path selects the core Helvetica font (Latin-only output).
func NewRenderer(fontPath string) (*Renderer, error) {
	if fontPath == "" {
		return &Renderer{fontName: "Helvetica"}, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFontUnavailable, fontPath, err)
	}
	return &Renderer{fontName: "Transcript", fontBytes: data}, nil
}

// Render writes the transcript PDF to w.
func (r *Renderer) Render(w io.Writer, turns []session.Turn, meta Meta) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if r.fontBytes != nil {
		pdf.AddUTF8FontFromBytes(r.fontName, "", r.fontBytes)
	}
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	bodyWidth := pageWidth - left - right

	pdf.SetFont(r.fontName, "", 16)
	pdf.MultiCell(bodyWidth, 9, DefaultTitle, "", "L", false)
	pdf.Ln(2)

	generatedAt := meta.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	pdf.SetFont(r.fontName, "", 10)
	pdf.MultiCell(bodyWidth, 5, "생성 시각: "+generatedAt.Format("2006-01-02 15:04"), "", "L", false)
	if meta.ModeLabel != "" {
		pdf.MultiCell(bodyWidth, 5, "탭: "+meta.ModeLabel, "", "L", false)
	}
	if meta.ProfileSummary != "" {
		pdf.MultiCell(bodyWidth, 5, "학생 정보: "+meta.ProfileSummary, "", "L", false)
	}

	pdf.Ln(2)
	y := pdf.GetY()
	pdf.Line(left, y, pageWidth-right, y)
	pdf.Ln(4)

	pdf.SetFont(r.fontName, "", 11)
	for _, turn := range turns {
		label := assistantLabel
		if turn.Role == session.RoleUser {
			label = studentLabel
		}
		pdf.MultiCell(bodyWidth, 6, label, "", "L", false)
		pdf.MultiCell(bodyWidth, 6, turn.Content, "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering transcript PDF: %w", err)
	}
	return nil
}
