package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dokseo0/dokseo/internal/report"
)

var (
	reportIn   string
	reportOut  string
	reportFont string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "저장된 대화 기록으로 PDF 리포트를 만듭니다",
	Example: `  dokseo report --in ~/.dokseo/transcripts/<id>.json
  dokseo report --in chat.json --out report.pdf --font fonts/NotoSansKR-Regular.ttf`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportIn, "in", "", "대화 기록 JSON 파일 경로 (필수)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "출력 PDF 경로 (기본: 입력 파일명.pdf)")
	reportCmd.Flags().StringVar(&reportFont, "font", "", "한글 TTF 폰트 경로 (기본: 설정의 font_path)")
	_ = reportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	tr, err := loadTranscript(reportIn)
	if err != nil {
		return err
	}

	fontPath := reportFont
	if fontPath == "" {
		fontPath = os.Getenv("DOKSEO_FONT_PATH")
	}
	renderer, err := report.NewRenderer(fontPath)
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(reportIn), filepath.Ext(reportIn))
		out = base + ".pdf"
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	err = renderer.Render(f, tr.Turns, report.Meta{
		ModeLabel:      tr.ModeLabel,
		ProfileSummary: tr.ProfileSummary,
		GeneratedAt:    tr.CreatedAt,
	})
	if err != nil {
		return err
	}

	fmt.Printf("리포트 저장: %s\n", out)
	return nil
}
