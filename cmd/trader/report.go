package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/assist-by/anansi/internal/config"
	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/store"
)

func newReportCmd() *cobra.Command {
	var price float64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "저장된 거래 기록과 운용 결과를 출력합니다",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, op, _, err := loadSettings()
			if err != nil {
				return err
			}
			if op.ID == "" {
				return fmt.Errorf("%w: 보고서에는 운용 ID가 필요합니다", config.ErrInvalidOperation)
			}

			db, err := store.OpenSQLite(cfg.Database.Path)
			if err != nil {
				return err
			}
			st := store.NewSQLStore(db, op.ID)
			defer st.Close()

			ctx := cmd.Context()
			trades, err := st.TradeLog(ctx)
			if err != nil {
				return fmt.Errorf("거래 기록 조회 실패: %w", err)
			}
			if len(trades) == 0 {
				if _, err := st.Position(ctx); errors.Is(err, store.ErrPositionNotFound) {
					return fmt.Errorf("운용 %s의 기록이 없습니다", op.ID)
				}
			}

			// 평가 가격이 없으면 마지막 체결가 사용
			if price <= 0 && len(trades) > 0 {
				price = trades[len(trades)-1].Price
			}

			out := cmd.OutOrStdout()
			if err := writeTradeLog(cmd, trades); err != nil {
				return err
			}
			fmt.Fprintln(out)

			report, err := summarize(ctx, st, op.Seed(), price, time.Now().UTC())
			if err != nil {
				return err
			}
			return report.Write(out)
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "보유 자산 평가 가격 (기본값: 마지막 체결가)")
	return cmd
}

func writeTradeLog(cmd *cobra.Command, trades []domain.TradeLogEntry) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "시각\t시그널\t가격\t수량\t수수료")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%.8f\t%.8f\t%.8f\n",
			time.Unix(t.Timestamp, 0).UTC().Format(time.RFC3339), t.Signal, t.Price, t.QuoteAmount, t.Fee)
	}
	return tw.Flush()
}
