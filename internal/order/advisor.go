package order

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/assist-by/anansi/internal/domain"
)

// advisorExecutor는 시그널만 계산하고 거래는 하지 않습니다
type advisorExecutor struct {
	operationID string
	generator   *Generator
	allowed     domain.SpecialSignals
	logger      *logrus.Logger
}

func newAdvisorExecutor(_ context.Context, deps Dependencies) (Executor, error) {
	return &advisorExecutor{
		operationID: deps.OperationID,
		generator:   NewGenerator(),
		allowed:     deps.Allowed,
		logger:      deps.Logger,
	}, nil
}

// Execute는 자문 결과를 반환합니다. 잔고는 변경하지 않습니다.
func (a *advisorExecutor) Execute(_ context.Context, req domain.OrderRequest) (*Outcome, error) {
	signal, side := a.generator.Process(req.FromSide, req.ToSide, req.DueToStop, a.allowed)
	outcome := newOutcome(a.operationID, req, signal, side)

	if err := req.Validate(); err != nil {
		outcome.skip(SkipInvalidInput)
		logOutcome(a.logger, outcome)
		return outcome, NewOrderError(a.operationID, "validate request", wrapInvalid(err))
	}

	outcome.skip(SkipAdvisory)
	logOutcome(a.logger, outcome)
	return outcome, nil
}
