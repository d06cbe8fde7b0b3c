// Package cmd implements the dokseo command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dokseo",
	Short: "학교도서관 독서활동 지원 챗봇",
	Long: `dokseo는 학교도서관 이용 안내, 책 추천, 독서활동을 돕는
검색 증강(RAG) 챗봇입니다.

인자 없이 실행하면 대화형 채팅 모드로 시작합니다.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
