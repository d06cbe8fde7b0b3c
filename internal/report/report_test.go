package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dokseo0/dokseo/internal/session"
)

func TestRender_ProducesPDF(t *testing.T) {
	r, err := NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}

	turns := []session.Turn{
		{Role: session.RoleUser, Content: "How long is the loan period?"},
		{Role: session.RoleAssistant, Content: "Seven days, renewable once."},
	}

	var buf bytes.Buffer
	err = r.Render(&buf, turns, Meta{
		ModeLabel:      "Library",
		ProfileSummary: "grade:middle, interest:mystery, level:normal",
		GeneratedAt:    time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output does not start with a PDF header")
	}
	if buf.Len() < 500 {
		t.Errorf("output is %d bytes, suspiciously small", buf.Len())
	}
}

func TestRender_EmptyTranscript(t *testing.T) {
	r, err := NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, nil, Meta{}); err != nil {
		t.Fatalf("Render() error on empty transcript: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output does not start with a PDF header")
	}
}

func TestNewRenderer_MissingFontFails(t *testing.T) {
	_, err := NewRenderer("/nonexistent/NotoSansKR-Regular.ttf")
	if !errors.Is(err, ErrFontUnavailable) {
		t.Errorf("expected ErrFontUnavailable, got %v", err)
	}
}
