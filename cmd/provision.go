package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "문서 아카이브를 내려받아 벡터 저장소에 적재합니다",
	Long: `미리 구축된 문서 아카이브(zip)를 내려받아 PostgreSQL 벡터
저장소에 적재합니다. 이미 적재된 저장소는 건드리지 않습니다.`,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Provisioner.Ensure(ctx); err != nil {
		return err
	}

	count, err := a.Knowledge.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	fmt.Printf("문서 적재 완료: %d개 청크\n", count)
	return nil
}
