package trader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/assist-by/anansi/internal/classifier"
	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/indicator"
	"github.com/assist-by/anansi/internal/market"
	"github.com/assist-by/anansi/internal/notification"
	"github.com/assist-by/anansi/internal/order"
	"github.com/assist-by/anansi/internal/stoploss"
)

// 주문 가격 산정에 사용하는 가격 지표
const orderPriceMetric = indicator.MetricOHLC4

// PositionReader는 트레이더가 현재 포지션을 조회하는 저장소 기능입니다
type PositionReader interface {
	Position(ctx context.Context) (domain.Position, error)
}

// StopLoss는 포지션 보유 중 손절 여부를 판단합니다
type StopLoss interface {
	TimeFrame() domain.TimeInterval
	CandlesNeeded() int
	Check(candles domain.CandleList, pos domain.Position) stoploss.Result
}

// Dependencies는 트레이더 생성에 필요한 협력 객체입니다
type Dependencies struct {
	OperationID string
	Mode        domain.Mode
	Executor    order.Executor
	Feed        market.Feed
	Classifier  classifier.Classifier
	StopLoss    StopLoss // nil이면 손절 판단을 하지 않음
	Positions   PositionReader
	Notifier    notification.Notifier
	Logger      *logrus.Logger
}

// Trader는 운용 하나의 분석-주문 사이클을 구동합니다
// 한 운용의 상태는 하나의 Trader만 소유하며 동시에 호출하지 않습니다.
type Trader struct {
	operationID string
	mode        domain.Mode
	executor    order.Executor
	feed        market.Feed
	classifier  classifier.Classifier
	stopLoss    StopLoss
	positions   PositionReader
	notifier    notification.Notifier
	logger      *logrus.Logger

	retry        market.RetryConfig
	tickInterval time.Duration
	tickDelay    time.Duration

	lastClassifiedAt time.Time
	target           classifier.Result
	advised          domain.Position // 자문 모드에서 추적하는 가상 포지션
	side             domain.Side
	lastPrice        float64
	now              time.Time
}

// Option은 트레이더 옵션을 정의합니다
type Option func(*Trader)

// WithRetryConfig는 캔들 조회 재시도 설정을 지정합니다
func WithRetryConfig(cfg market.RetryConfig) Option {
	return func(t *Trader) {
		t.retry = cfg
	}
}

// WithTickInterval은 실시간 모드의 실행 간격을 지정합니다
func WithTickInterval(interval time.Duration) Option {
	return func(t *Trader) {
		t.tickInterval = interval
	}
}

// WithTickDelay는 캔들 마감 이후 실행까지의 대기 시간을 지정합니다
func WithTickDelay(d time.Duration) Option {
	return func(t *Trader) {
		t.tickDelay = d
	}
}

// New는 새로운 트레이더를 생성합니다
func New(deps Dependencies, opts ...Option) (*Trader, error) {
	switch {
	case deps.Executor == nil:
		return nil, errors.New("주문 실행기가 없습니다")
	case deps.Feed == nil:
		return nil, errors.New("캔들 공급자가 없습니다")
	case deps.Classifier == nil:
		return nil, errors.New("분류기가 없습니다")
	case deps.Positions == nil && deps.Mode != domain.Advisor:
		return nil, errors.New("포지션 저장소가 없습니다")
	}

	t := &Trader{
		operationID:  deps.OperationID,
		mode:         deps.Mode,
		executor:     deps.Executor,
		feed:         deps.Feed,
		classifier:   deps.Classifier,
		stopLoss:     deps.StopLoss,
		positions:    deps.Positions,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		retry:        market.DefaultRetryConfig(),
		tickInterval: time.Minute,
		tickDelay:    2 * time.Second,
		advised:      domain.NewPosition(deps.OperationID, domain.Balances{}),
		side:         domain.Zeroed,
	}
	if t.notifier == nil {
		t.notifier = notification.Nop{}
	}
	if t.logger == nil {
		t.logger = logrus.StandardLogger()
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// LastPrice는 마지막 사이클에서 사용한 가격을 반환합니다
func (t *Trader) LastPrice() float64 { return t.lastPrice }

// Now는 마지막 사이클의 기준 시각을 반환합니다
func (t *Trader) Now() time.Time { return t.now }

// Tick은 now 시점의 사이클 한 번을 수행합니다
// 분석할 새 데이터가 없으면 nil Outcome을 반환합니다.
func (t *Trader) Tick(ctx context.Context, now time.Time) (*order.Outcome, error) {
	t.now = now

	pos, err := t.position(ctx)
	if err != nil {
		return nil, fmt.Errorf("포지션 조회 실패: %w", err)
	}
	t.side = pos.Side

	var latest domain.CandleList
	analyzed := false

	if t.classifierDue(now) {
		candles, err := t.klines(ctx, t.classifier.TimeFrame(), t.classifier.CandlesNeeded(), now)
		if err != nil {
			return nil, err
		}
		result, err := t.classifier.Analyze(ctx, candles)
		if err != nil {
			return nil, fmt.Errorf("%s 분석 실패: %w", t.classifier.GetName(), err)
		}
		t.target = result
		t.lastClassifiedAt = now
		latest = candles
		analyzed = true

		t.logger.WithFields(logrus.Fields{
			"operation_id": t.operationID,
			"classifier":   t.classifier.GetName(),
			"side":         result.Side,
			"values":       result.Values,
		}).Debug("분류기 분석 완료")
	}

	toSide := t.target.Side
	dueToStop := false
	if t.stopOn(pos.Side) {
		candles, err := t.klines(ctx, t.stopLoss.TimeFrame(), t.stopLoss.CandlesNeeded(), now)
		if err != nil {
			return nil, err
		}
		if check := t.stopLoss.Check(candles, pos); check.Stop {
			toSide = domain.Zeroed
			dueToStop = true
			t.logger.WithFields(logrus.Fields{
				"operation_id": t.operationID,
				"trigger":      check.Trigger,
				"target":       check.Target,
			}).Info("손절 조건 충족")
		}
		latest = candles
		analyzed = true
	}

	if !analyzed {
		t.logger.WithField("operation_id", t.operationID).Debug("분석할 새 데이터가 없습니다")
		return nil, nil
	}
	if toSide == "" {
		toSide = domain.Zeroed
	}

	last, ok := latest.GetLastCandle()
	if !ok {
		return nil, fmt.Errorf("%w: 가격을 산정할 캔들이 없습니다", market.ErrNotEnoughData)
	}
	t.lastPrice = orderPriceMetric.Of(last)

	req := domain.OrderRequest{
		Timestamp: now.UTC().Unix(),
		FromSide:  pos.Side,
		ToSide:    toSide,
		Price:     t.lastPrice,
		DueToStop: dueToStop,
	}
	outcome, err := t.executor.Execute(ctx, req)
	if outcome != nil {
		t.observe(outcome)
	}
	if err != nil {
		t.notifyError(err)
		return outcome, err
	}
	t.notify(outcome)
	return outcome, nil
}

// Run은 운용 모드에 맞게 사이클을 반복 실행합니다
// 백테스트는 데이터 구간을 모두 재생하면 종료하고, 그 외 모드는 ctx가 취소될 때까지 실행합니다.
func (t *Trader) Run(ctx context.Context) error {
	switch t.mode {
	case domain.BackTesting:
		return t.runBacktest(ctx)
	case domain.Advisor, domain.RealTimeTest:
		return t.runLive(ctx)
	default:
		return fmt.Errorf("%w: %s", order.ErrModeNotSupported, t.mode)
	}
}

func (t *Trader) position(ctx context.Context) (domain.Position, error) {
	if t.mode == domain.Advisor {
		return t.advised, nil
	}
	return t.positions.Position(ctx)
}

func (t *Trader) classifierDue(now time.Time) bool {
	if t.lastClassifiedAt.IsZero() {
		return true
	}
	step := domain.TimeIntervalToDuration(t.classifier.TimeFrame())
	return !now.Before(t.lastClassifiedAt.Add(step))
}

func (t *Trader) stopOn(side domain.Side) bool {
	return t.stopLoss != nil && side != domain.Zeroed
}

// step은 다음 사이클까지의 간격입니다 (포지션 보유 중 손절 판단 시 손절 간격)
func (t *Trader) step() time.Duration {
	if t.stopOn(t.side) {
		return domain.TimeIntervalToDuration(t.stopLoss.TimeFrame())
	}
	return domain.TimeIntervalToDuration(t.classifier.TimeFrame())
}

func (t *Trader) klines(ctx context.Context, interval domain.TimeInterval, n int, until time.Time) (domain.CandleList, error) {
	var candles domain.CandleList
	err := market.WithRetry(ctx, t.retry, t.logger, fmt.Sprintf("%s 캔들 조회", interval), func() error {
		var err error
		candles, err = t.feed.Klines(ctx, interval, n, until)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("캔들 데이터 조회 실패: %w", err)
	}
	return candles, nil
}

// observe는 실행 결과로 추적 중인 포지션 방향을 갱신합니다
func (t *Trader) observe(o *order.Outcome) {
	if o.SkipReason == order.SkipInvalidInput {
		return
	}
	if o.Executed {
		t.side = o.ResultingSide
		return
	}
	if o.SkipReason == order.SkipAdvisory && o.ResultingSide != t.advised.Side {
		price := o.Request.Price
		at := o.Request.Timestamp
		signal := o.Signal
		t.advised.Side = o.ResultingSide
		t.advised.TradedPrice = &price
		t.advised.TradedAt = &at
		t.advised.DueToSignal = &signal
		t.side = o.ResultingSide
	}
}

func (t *Trader) notify(o *order.Outcome) {
	switch {
	case o.Executed:
	case o.SkipReason == order.SkipAdvisory && o.Signal != domain.Hold:
	case o.SkipReason == order.SkipStopLossGuard:
	default:
		return
	}
	if err := t.notifier.SendExecution(o); err != nil {
		t.logger.WithError(err).Warn("실행 알림 전송 실패")
	}
}

func (t *Trader) notifyError(err error) {
	if nerr := t.notifier.SendError(err); nerr != nil {
		t.logger.WithError(nerr).Warn("에러 알림 전송 실패")
	}
}
