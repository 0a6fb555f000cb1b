package order

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/assist-by/anansi/internal/domain"
)

// Executor는 주문 요청 하나를 끝까지 처리하는 실행기 인터페이스입니다
type Executor interface {
	// Execute는 요청을 시그널로 분류하고, 모드에 따라 거래를 실행하거나 건너뜁니다
	Execute(ctx context.Context, req domain.OrderRequest) (*Outcome, error)
}

// PositionStore는 실행기가 필요로 하는 포지션 저장소 기능입니다
type PositionStore interface {
	// Position은 현재 포지션을 조회합니다
	Position(ctx context.Context) (domain.Position, error)

	// ApplyExecution은 포지션 갱신과 거래 기록 추가를 하나의 트랜잭션으로 적용합니다
	ApplyExecution(ctx context.Context, pos domain.Position, entry domain.TradeLogEntry) error
}

// Dependencies는 실행기 생성에 필요한 의존성을 담습니다
type Dependencies struct {
	OperationID   string                // 운용 ID
	Store         PositionStore         // 포지션 저장소
	Rules         domain.MarketRules    // 최소 거래 단위와 수수료율
	Allowed       domain.SpecialSignals // 허용된 특수 시그널
	HoldIfStopped bool                  // 손절 직후 같은 방향 재진입 차단 여부
	Logger        *logrus.Logger
}

type constructor func(ctx context.Context, deps Dependencies) (Executor, error)

// 모드별 실행기 생성자 (RealTrading은 실주문을 지원하지 않으므로 등록하지 않음)
var constructors = map[domain.Mode]constructor{
	domain.Advisor:      newAdvisorExecutor,
	domain.BackTesting:  newSimulatedExecutor,
	domain.RealTimeTest: newSimulatedExecutor,
}

// NewExecutor는 운용 모드에 맞는 실행기를 생성합니다
func NewExecutor(ctx context.Context, mode domain.Mode, deps Dependencies) (Executor, error) {
	create, ok := constructors[mode]
	if !ok {
		return nil, NewOrderError(deps.OperationID, "create executor", fmt.Errorf("%w: %s", ErrModeNotSupported, mode))
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return create(ctx, deps)
}

// logOutcome은 실행 결과를 기록합니다
func logOutcome(logger *logrus.Logger, o *Outcome) {
	entry := logger.WithFields(logrus.Fields{
		"operation_id": o.OperationID,
		"timestamp":    o.Request.Timestamp,
		"signal":       o.Signal,
		"from_side":    o.Request.FromSide,
		"to_side":      o.Request.ToSide,
		"side":         o.ResultingSide,
		"price":        o.Request.Price,
	})

	if o.Executed {
		entry.WithFields(logrus.Fields{
			"amount":   o.Amount,
			"fee_base": o.FeeBase,
			"quote":    o.After.Quote,
			"base":     o.After.Base,
		}).Info("주문 실행 완료")
		return
	}

	entry = entry.WithField("reason", o.SkipReason)
	switch o.SkipReason {
	case SkipInvalidInput:
		entry.Warn("유효하지 않은 입력으로 주문을 건너뜁니다")
	case SkipInsufficientFunds:
		entry.WithField("amount", o.Amount).Info("최소 거래 단위 미달로 주문을 건너뜁니다")
	default:
		entry.Debug("주문을 건너뜁니다")
	}
}
