package domain

import (
	"fmt"
	"math"
)

// OrderRequest는 한 번의 주문 실행 시도에 대한 입력입니다
type OrderRequest struct {
	Timestamp int64   // UTC 기준 초 단위 타임스탬프
	FromSide  Side    // 현재 포지션 방향
	ToSide    Side    // 지표가 제안한 포지션 방향
	Price     float64 // 현재 가격
	DueToStop bool    // 손절 조건에 의한 요청 여부
}

// Validate는 주문 요청이 거래 가능한 값인지 확인합니다
func (r OrderRequest) Validate() error {
	if math.IsNaN(r.Price) || math.IsInf(r.Price, 0) || r.Price <= 0 {
		return fmt.Errorf("가격이 유효하지 않습니다: %v", r.Price)
	}
	if !r.FromSide.IsValid() {
		return fmt.Errorf("현재 포지션 방향이 유효하지 않습니다: %q", r.FromSide)
	}
	if !r.ToSide.IsValid() {
		return fmt.Errorf("목표 포지션 방향이 유효하지 않습니다: %q", r.ToSide)
	}
	return nil
}

// Position은 운용별 포지션 상태를 표현합니다
type Position struct {
	OperationID string   // 운용 ID
	Side        Side     // 현재 포지션 방향
	Balances    Balances // 현재 잔고
	TradedPrice *float64 // 마지막 체결 가격
	TradedAt    *int64   // 마지막 체결 시각 (UTC 초)
	DueToSignal *Signal  // 마지막 체결을 만든 시그널
}

// NewPosition은 운용 시작 시점의 포지션을 생성합니다
func NewPosition(operationID string, seed Balances) Position {
	return Position{
		OperationID: operationID,
		Side:        Zeroed,
		Balances:    seed,
	}
}

// LastSignal은 마지막 체결 시그널을 반환합니다 (없으면 빈 값)
func (p Position) LastSignal() Signal {
	if p.DueToSignal == nil {
		return ""
	}
	return *p.DueToSignal
}

// TradeLogEntry는 체결 한 건에 대한 감사 기록입니다
// 생성 이후에는 변경되지 않습니다.
type TradeLogEntry struct {
	ID          string  // 기록 ID
	OperationID string  // 운용 ID
	Timestamp   int64   // 체결 시각 (UTC 초)
	Signal      Signal  // 체결 시그널
	Price       float64 // 체결 가격
	QuoteAmount float64 // 수수료 차감 전 거래 수량
	Fee         float64 // 수수료 (base 자산 단위)
}
