package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/store"
)

// simulatedExecutor는 잔고 장부만 갱신하는 가상 체결 실행기입니다
// 백테스트와 실시간 테스트 모드에서 사용합니다.
type simulatedExecutor struct {
	operationID string
	generator   *Generator
	guard       *stopGuard
	store       PositionStore
	rules       domain.MarketRules
	allowed     domain.SpecialSignals
	logger      *logrus.Logger
}

func newSimulatedExecutor(ctx context.Context, deps Dependencies) (Executor, error) {
	if deps.Store == nil {
		return nil, NewOrderError(deps.OperationID, "create executor", errors.New("포지션 저장소가 없습니다"))
	}
	if err := deps.Rules.Validate(); err != nil {
		return nil, NewOrderError(deps.OperationID, "create executor", fmt.Errorf("%w: %v", ErrInvalidRules, err))
	}

	// 재시작 시 마지막 체결 시그널로 손절 재진입 차단 상태를 복구
	pos, err := deps.Store.Position(ctx)
	if err != nil {
		return nil, NewOrderError(deps.OperationID, "load position", fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	return &simulatedExecutor{
		operationID: deps.OperationID,
		generator:   NewGenerator(),
		guard:       newStopGuard(deps.HoldIfStopped, pos.LastSignal()),
		store:       deps.Store,
		rules:       deps.Rules,
		allowed:     deps.Allowed,
		logger:      deps.Logger,
	}, nil
}

// Execute는 시그널 계산, 수량 계산, 잔고 갱신, 거래 기록을 순서대로 수행합니다
func (e *simulatedExecutor) Execute(ctx context.Context, req domain.OrderRequest) (*Outcome, error) {
	signal, side := e.generator.Process(req.FromSide, req.ToSide, req.DueToStop, e.allowed)
	signal, side = e.guard.filter(req, signal, side)
	outcome := newOutcome(e.operationID, req, signal, side)

	if err := req.Validate(); err != nil {
		return e.reject(outcome, "validate request", err)
	}

	switch signal {
	case domain.Hold:
		return e.finish(outcome.skip(SkipHold)), nil
	case domain.SkippedDueToStopLoss:
		return e.finish(outcome.skip(SkipStopLossGuard)), nil
	}

	pos, err := e.store.Position(ctx)
	if err != nil {
		return outcome, NewOrderError(e.operationID, "load position", fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	outcome.Before = pos.Balances
	outcome.After = pos.Balances

	if err := pos.Balances.Validate(); err != nil {
		return e.reject(outcome, "validate balances", err)
	}
	if pos.Side != req.FromSide {
		e.logger.WithFields(logrus.Fields{
			"operation_id": e.operationID,
			"stored_side":  pos.Side,
			"from_side":    req.FromSide,
		}).Warn("요청의 현재 방향이 저장된 포지션과 다릅니다")
	}

	outcome.Amount = AmountFor(signal, req.Price, pos.Balances, e.rules.MinimalTradableUnit)
	if outcome.Amount <= e.rules.MinimalTradableUnit {
		return e.finish(outcome.skip(SkipInsufficientFunds)), nil
	}

	settled, err := settle(signal, outcome.Amount, req.Price, pos.Balances, e.rules.FeeRateDecimal)
	if err != nil {
		return e.reject(outcome, "settle balances", err)
	}
	outcome.FeeQuote = settled.feeQuote
	outcome.FeeBase = settled.feeBase

	entry := domain.TradeLogEntry{
		ID:          uuid.NewString(),
		OperationID: e.operationID,
		Timestamp:   req.Timestamp,
		Signal:      signal,
		Price:       req.Price,
		QuoteAmount: outcome.Amount,
		Fee:         settled.feeBase,
	}

	next := pos
	next.Side = side
	next.Balances = settled.balances
	next.TradedPrice = &entry.Price
	next.TradedAt = &entry.Timestamp
	next.DueToSignal = &entry.Signal

	if err := e.store.ApplyExecution(ctx, next, entry); err != nil {
		if errors.Is(err, store.ErrDuplicateTrade) {
			return e.finish(outcome.skip(SkipAlreadyApplied)), nil
		}
		e.logger.WithError(err).WithField("operation_id", e.operationID).Error("포지션 저장 실패")
		return outcome, NewOrderError(e.operationID, "apply execution", fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	e.guard.observe(signal)
	outcome.Executed = true
	outcome.After = settled.balances
	outcome.Entry = &entry
	return e.finish(outcome), nil
}

func (e *simulatedExecutor) finish(o *Outcome) *Outcome {
	logOutcome(e.logger, o)
	return o
}

func (e *simulatedExecutor) reject(o *Outcome, op string, err error) (*Outcome, error) {
	e.finish(o.skip(SkipInvalidInput))
	return o, NewOrderError(e.operationID, op, wrapInvalid(err))
}

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

type settlement struct {
	balances domain.Balances
	feeQuote float64
	feeBase  float64
}

// settle은 체결 후 잔고와 수수료를 계산합니다
// 수수료는 매수 시 취득한 quote 자산에서, 매도 시 취득한 base 자산에서 차감됩니다.
func settle(signal domain.Signal, amount, price float64, balances domain.Balances, feeRate float64) (settlement, error) {
	qty := decimal.NewFromFloat(amount)
	px := decimal.NewFromFloat(price)
	quote := decimal.NewFromFloat(balances.Quote)
	base := decimal.NewFromFloat(balances.Base)

	feeQuote := decimal.NewFromFloat(feeRate).Mul(qty)
	feeBase := feeQuote.Mul(px)
	notional := qty.Mul(px)

	switch signal {
	case domain.Buy, domain.StopFromShort:
		quote = quote.Add(qty.Sub(feeQuote))
		base = base.Sub(notional)
	case domain.Sell, domain.StopFromLong:
		quote = quote.Sub(qty)
		base = base.Add(notional.Sub(feeBase))
	default:
		return settlement{}, fmt.Errorf("잔고를 정산할 수 없는 시그널입니다: %s", signal)
	}

	result := settlement{
		balances: domain.Balances{
			Quote: quote.InexactFloat64(),
			Base:  base.InexactFloat64(),
		},
		feeQuote: feeQuote.InexactFloat64(),
		feeBase:  feeBase.InexactFloat64(),
	}
	if err := result.balances.Validate(); err != nil {
		return settlement{}, fmt.Errorf("정산 결과가 유효하지 않습니다: %w", err)
	}
	return result, nil
}
