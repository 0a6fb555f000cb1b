package order

import (
	"fmt"
	"strings"

	"github.com/assist-by/anansi/internal/domain"
)

// SkipReason은 거래가 실행되지 않은 이유를 정의합니다
type SkipReason string

const (
	NotSkipped            SkipReason = ""
	SkipAdvisory          SkipReason = "Advisory"          // 자문 모드, 거래하지 않음
	SkipHold              SkipReason = "Hold"              // 전환 없음
	SkipStopLossGuard     SkipReason = "StopLossGuard"     // 손절 직후 재진입 차단
	SkipInsufficientFunds SkipReason = "InsufficientFunds" // 최소 거래 단위 미달
	SkipInvalidInput      SkipReason = "InvalidInput"      // 가격/잔고 이상
	SkipAlreadyApplied    SkipReason = "AlreadyApplied"    // 같은 시각의 체결이 이미 기록됨
)

// Outcome은 한 번의 실행 시도 결과입니다
// 실행 여부와 관계없이 이 값만으로 사이클을 설명할 수 있어야 합니다.
type Outcome struct {
	OperationID   string
	Request       domain.OrderRequest
	Signal        domain.Signal
	ResultingSide domain.Side
	Amount        float64         // 거래 수량 (quote 자산 단위, 수수료 차감 전)
	FeeQuote      float64         // 수수료 (quote 자산 단위)
	FeeBase       float64         // 수수료 (base 자산 단위)
	Before        domain.Balances // 실행 전 잔고
	After         domain.Balances // 실행 후 잔고 (미실행 시 Before와 동일)
	Executed      bool
	SkipReason    SkipReason
	Entry         *domain.TradeLogEntry // 실행된 경우의 거래 기록
}

func newOutcome(operationID string, req domain.OrderRequest, signal domain.Signal, side domain.Side) *Outcome {
	return &Outcome{
		OperationID:   operationID,
		Request:       req,
		Signal:        signal,
		ResultingSide: side,
	}
}

// skip은 미실행 결과로 표시합니다
func (o *Outcome) skip(reason SkipReason) *Outcome {
	o.Executed = false
	o.SkipReason = reason
	o.After = o.Before
	return o
}

// String은 알림용 key=value 텍스트를 반환합니다
func (o *Outcome) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "signal=%s side=%s->%s requested=%s price=%.8f",
		o.Signal, o.Request.FromSide, o.ResultingSide, o.Request.ToSide, o.Request.Price)
	if o.Executed {
		fmt.Fprintf(&b, " amount=%.8f fee_base=%.8f quote=%.8f base=%.8f",
			o.Amount, o.FeeBase, o.After.Quote, o.After.Base)
	} else {
		fmt.Fprintf(&b, " skipped=%s", o.SkipReason)
		if o.SkipReason == SkipInsufficientFunds {
			fmt.Fprintf(&b, " amount=%.8f", o.Amount)
		}
	}
	return b.String()
}
