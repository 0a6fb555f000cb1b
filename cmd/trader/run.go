package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/assist-by/anansi/internal/backtest"
	"github.com/assist-by/anansi/internal/classifier"
	"github.com/assist-by/anansi/internal/config"
	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/exchange/binance"
	"github.com/assist-by/anansi/internal/market"
	"github.com/assist-by/anansi/internal/notification"
	"github.com/assist-by/anansi/internal/notification/discord"
	"github.com/assist-by/anansi/internal/order"
	"github.com/assist-by/anansi/internal/stoploss"
	"github.com/assist-by/anansi/internal/store"
	"github.com/assist-by/anansi/internal/trader"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "운용 설정의 모드로 트레이더를 실행합니다",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runOperation(ctx, cmd)
		},
	}
}

func runOperation(ctx context.Context, cmd *cobra.Command) error {
	cfg, op, logger, err := loadSettings()
	if err != nil {
		return err
	}
	if op.ID == "" {
		op.ID = uuid.NewString()
		logger.WithField("operation_id", op.ID).Warn("운용 ID가 없어 새로 생성합니다")
	}

	ticker := op.MarketInfo().Ticker()
	log := logger.WithFields(logrus.Fields{
		"operation_id": op.ID,
		"mode":         op.Mode,
		"ticker":       ticker,
	})
	log.Info("트레이딩 봇 시작...")

	discordClient := discord.NewClient(
		cfg.Discord.TradeWebhook,
		cfg.Discord.ErrorWebhook,
		cfg.Discord.InfoWebhook,
		discord.WithTimeout(10*time.Second),
		discord.WithLabel(ticker),
	)

	binanceClient := binance.NewClient(
		binance.WithBaseURL(cfg.Binance.BaseURL),
		binance.WithRequestsPerMinute(cfg.Binance.RequestsPerMin),
		binance.WithTimeout(10*time.Second),
	)

	rules, err := binanceClient.MarketRules(ctx, ticker)
	if err != nil {
		return fmt.Errorf("거래소 규칙 조회 실패: %w", err)
	}

	st, err := openStore(ctx, cfg, op)
	if err != nil {
		return err
	}
	defer st.Close()

	cls, err := classifier.DefaultRegistry().Create(op.Classifier)
	if err != nil {
		return fmt.Errorf("분류기 생성 실패: %w", err)
	}

	intervals := []domain.TimeInterval{cls.TimeFrame()}
	var stopLoss trader.StopLoss
	if op.StopLoss.Enabled {
		s, err := stoploss.New(op.StopLoss)
		if err != nil {
			return fmt.Errorf("손절 설정 오류: %w", err)
		}
		stopLoss = s
		intervals = append(intervals, s.TimeFrame())
	}

	var (
		feed     market.Feed
		notifier notification.Notifier = discordClient
	)
	if op.Mode == domain.BackTesting {
		start, end, err := op.BacktestWindow(time.Now())
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"start": start, "end": end}).Info("과거 캔들 데이터를 적재합니다")
		feed, err = market.LoadHistorical(ctx, binanceClient, ticker, intervals, start, end, cfg.Binance.RecordsPerFetch)
		if err != nil {
			return fmt.Errorf("과거 데이터 적재 실패: %w", err)
		}
		// 백테스트 체결마다 알림을 보내지 않음
		notifier = notification.Nop{}
	} else {
		feed = market.NewLiveFeed(binanceClient, ticker, market.WithRecordsPerRequest(cfg.Binance.RecordsPerFetch))
	}

	executor, err := order.NewExecutor(ctx, op.Mode, order.Dependencies{
		OperationID:   op.ID,
		Store:         st,
		Rules:         rules,
		Allowed:       op.Allowed,
		HoldIfStopped: op.HoldIfStopped,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("주문 실행기 생성 실패: %w", err)
	}

	retry := market.DefaultRetryConfig()
	retry.MaxRetries = cfg.App.MaxRetries

	t, err := trader.New(trader.Dependencies{
		OperationID: op.ID,
		Mode:        op.Mode,
		Executor:    executor,
		Feed:        feed,
		Classifier:  cls,
		StopLoss:    stopLoss,
		Positions:   st,
		Notifier:    notifier,
		Logger:      logger,
	},
		trader.WithRetryConfig(retry),
		trader.WithTickInterval(cfg.App.TickInterval),
	)
	if err != nil {
		return fmt.Errorf("트레이더 생성 실패: %w", err)
	}

	sendInfo(logger, discordClient, fmt.Sprintf("🚀 %s 운용을 시작합니다 (%s, %s)", ticker, op.Mode, cls.GetName()))

	if err := t.Run(ctx); err != nil {
		if serr := discordClient.SendError(err); serr != nil {
			logger.WithError(serr).Warn("에러 알림 전송 실패")
		}
		return fmt.Errorf("운용 실행 실패: %w", err)
	}

	if op.Mode == domain.BackTesting {
		report, err := summarize(ctx, st, op.Seed(), t.LastPrice(), t.Now())
		if err != nil {
			return err
		}
		if err := report.Write(cmd.OutOrStdout()); err != nil {
			return err
		}
		sendInfo(logger, discordClient, fmt.Sprintf("✅ %s 백테스트 완료: 체결 %d건, 누적 수익률 %.2f%%, 최대 낙폭 %.2f%%",
			ticker, report.TotalTrades, report.CumulativeReturn, report.MaxDrawdown))
		return nil
	}

	sendInfo(logger, discordClient, "👋 트레이딩 봇이 정상적으로 종료되었습니다.")
	log.Info("프로그램을 종료합니다.")
	return nil
}

// openStore는 운용 모드에 맞는 저장소를 열고 포지션을 준비합니다
// 자문 모드는 잔고를 다루지 않으므로 메모리 저장소를 사용합니다.
func openStore(ctx context.Context, cfg *config.Config, op *config.Operation) (store.Store, error) {
	seed := domain.NewPosition(op.ID, op.Seed())
	if op.Mode == domain.Advisor {
		return store.NewMemoryStore(seed), nil
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("데이터 디렉터리 생성 실패: %w", err)
		}
	}
	db, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	st := store.NewSQLStore(db, op.ID)

	// 백테스트는 항상 시작 잔고에서 다시 시작
	if op.Mode == domain.BackTesting {
		if err := st.Reset(ctx, seed); err != nil {
			st.Close()
			return nil, fmt.Errorf("포지션 초기화 실패: %w", err)
		}
		return st, nil
	}

	if _, err := st.Position(ctx); err != nil {
		if !errors.Is(err, store.ErrPositionNotFound) {
			st.Close()
			return nil, fmt.Errorf("포지션 조회 실패: %w", err)
		}
		if err := st.Reset(ctx, seed); err != nil {
			st.Close()
			return nil, fmt.Errorf("포지션 생성 실패: %w", err)
		}
	}
	return st, nil
}

func summarize(ctx context.Context, st store.Store, seed domain.Balances, lastPrice float64, at time.Time) (*backtest.Report, error) {
	trades, err := st.TradeLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("거래 기록 조회 실패: %w", err)
	}
	pos, err := st.Position(ctx)
	if err != nil {
		return nil, fmt.Errorf("포지션 조회 실패: %w", err)
	}
	return backtest.Summarize(seed, trades, pos, lastPrice, at), nil
}

func sendInfo(logger *logrus.Logger, n notification.Notifier, message string) {
	if err := n.SendInfo(message); err != nil {
		logger.WithError(err).Warn("정보 알림 전송 실패")
	}
}
