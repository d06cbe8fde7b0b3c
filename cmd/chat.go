package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dokseo0/dokseo/internal/app"
	"github.com/dokseo0/dokseo/internal/mode"
	"github.com/dokseo0/dokseo/internal/pipeline"
	"github.com/dokseo0/dokseo/internal/profile"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "대화형 채팅 모드를 시작합니다",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("📚 학교도서관 독서활동 지원 챗봇 (모드: %s)\n", m.Label())
	fmt.Println("명령어는 /help, 종료는 /exit 또는 Ctrl+D 입니다.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("학생> ")

		if !scanner.Scan() {
			// EOF (Ctrl+D)
			fmt.Println("\n안녕히 가세요!")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			exit, err := handleCommand(input, a, &m)
			if err != nil {
				fmt.Fprintf(os.Stderr, "오류: %v\n", err)
			}
			if exit {
				break
			}
			continue
		}

		answer, err := a.Pipeline.Answer(ctx, pipeline.Request{
			Mode:      m,
			Utterance: input,
			Profile:   p,
		})
		if err != nil {
			switch {
			case errors.Is(err, pipeline.ErrTimeout):
				fmt.Fprintln(os.Stderr, "응답 시간이 초과됐어요. 다시 시도해 주세요.")
			case errors.Is(err, pipeline.ErrGenerationFailed):
				fmt.Fprintln(os.Stderr, "답변 생성에 실패했어요. 잠시 후 다시 시도해 주세요.")
			default:
				fmt.Fprintf(os.Stderr, "오류: %v\n", err)
			}
			continue
		}

		fmt.Println("챗봇> " + answer)
		fmt.Println()
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("reading input: %w", err)
	}

	return finishSession(a, m, p)
}

// finishSession saves the transcript when the conversation had any turns.
func finishSession(a *app.App, m mode.Mode, p profile.Profile) error {
	turns := a.History.Turns()
	if len(turns) == 0 {
		return nil
	}
	path, err := saveTranscript(m, p, turns)
	if err != nil {
		return err
	}
	fmt.Printf("대화 기록 저장: %s\n", path)
	fmt.Println("PDF 리포트는 `dokseo report --in " + path + "` 로 만들 수 있어요.")
	return nil
}

// handleCommand handles slash commands, returning true when the loop should exit.
func handleCommand(input string, a *app.App, m *mode.Mode) (bool, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/help":
		fmt.Println("명령어:")
		fmt.Println("  /help          명령어 보기")
		fmt.Println("  /mode [이름]   모드 확인/변경 (도서관 이용 안내, 책 추천, 독서활동)")
		fmt.Println("  /clear         대화 기록 지우기")
		fmt.Println("  /exit, /quit   종료")
		fmt.Println()

	case "/mode":
		if len(parts) < 2 {
			fmt.Printf("현재 모드: %s\n\n", m.Label())
			return false, nil
		}
		newMode, err := mode.Parse(strings.Join(parts[1:], " "))
		if err != nil {
			return false, err
		}
		*m = newMode
		fmt.Printf("모드 변경: %s\n\n", m.Label())

	case "/clear":
		a.History.Clear()
		fmt.Println("대화 기록을 지웠어요.")
		fmt.Println()

	case "/exit", "/quit":
		fmt.Println("안녕히 가세요!")
		return true, nil

	default:
		fmt.Printf("알 수 없는 명령어: %s\n", parts[0])
		fmt.Println("/help 로 명령어를 확인하세요.")
		fmt.Println()
	}

	return false, nil
}
