package trader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/market"
	"github.com/assist-by/anansi/internal/order"
	"github.com/assist-by/anansi/internal/scheduler"
)

// BoundedFeed는 데이터 구간을 알고 있는 캔들 공급자입니다 (백테스트용)
type BoundedFeed interface {
	market.Feed
	Bounds(interval domain.TimeInterval) (time.Time, time.Time, bool)
}

// runBacktest는 가상 시계로 과거 데이터 구간을 재생합니다
// 시작 시각은 첫 캔들 이후 분류기에 필요한 캔들이 모두 마감된 시점입니다.
func (t *Trader) runBacktest(ctx context.Context) error {
	feed, ok := t.feed.(BoundedFeed)
	if !ok {
		return errors.New("백테스트에는 구간 정보가 있는 캔들 공급자가 필요합니다")
	}

	interval := t.classifier.TimeFrame()
	first, end, ok := feed.Bounds(interval)
	if !ok {
		return fmt.Errorf("%w: %s", market.ErrNoHistory, interval)
	}
	step := domain.TimeIntervalToDuration(interval)
	now := first.Add(step * time.Duration(t.classifier.CandlesNeeded()))

	logger := t.logger.WithFields(logrus.Fields{
		"operation_id": t.operationID,
		"start":        now.Format(time.RFC3339),
		"end":          end.Format(time.RFC3339),
	})
	logger.Info("백테스트 시작")

	ticks, executed := 0, 0
	for !now.After(end) {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome, err := t.Tick(ctx, now)
		switch {
		case err == nil:
		case errors.Is(err, order.ErrPersistence):
			return err
		default:
			t.logger.WithError(err).WithField("at", now).Warn("사이클 실행 실패, 다음 시점으로 진행합니다")
		}
		if outcome != nil && outcome.Executed {
			executed++
		}

		ticks++
		now = now.Add(t.step())
	}

	logger.WithFields(logrus.Fields{
		"ticks":    ticks,
		"executed": executed,
	}).Info("백테스트 완료")
	return nil
}

// runLive는 스케줄러로 interval 경계마다 사이클을 실행합니다
func (t *Trader) runLive(ctx context.Context) error {
	task := scheduler.TaskFunc(func(ctx context.Context, at time.Time) error {
		_, err := t.Tick(ctx, at)
		return err
	})

	s := scheduler.NewScheduler(t.tickInterval, task,
		scheduler.WithDelay(t.tickDelay),
		scheduler.WithLogger(t.logger),
	)

	t.logger.WithFields(logrus.Fields{
		"operation_id": t.operationID,
		"mode":         t.mode,
		"interval":     t.tickInterval,
	}).Info("실시간 운용 시작")

	err := s.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
