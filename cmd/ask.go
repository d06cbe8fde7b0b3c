package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dokseo0/dokseo/internal/pipeline"
)

var askCmd = &cobra.Command{
	Use:   "ask [질문]",
	Short: "질문 하나를 보내고 답변을 출력합니다",
	Example: `  dokseo ask "대출 기간이 며칠이야?"
  dokseo ask --mode "책 추천" --grade 중등 --interest 추리 "추리소설 추천해줘"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	m, p, err := parseTurnFlags()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Provisioner.Ensure(ctx); err != nil {
		a.Logger.Warn("document provisioning failed, answering without context", "error", err)
	}

	answer, err := a.Pipeline.Answer(ctx, pipeline.Request{
		Mode:      m,
		Utterance: strings.Join(args, " "),
		Profile:   p,
	})
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
