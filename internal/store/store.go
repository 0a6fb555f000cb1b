package store

import (
	"context"
	"errors"

	"github.com/assist-by/anansi/internal/domain"
)

// Error 타입들은 저장소에서 발생할 수 있는 에러를 정의합니다
var (
	ErrPositionNotFound  = errors.New("포지션이 존재하지 않습니다")
	ErrDuplicateTrade    = errors.New("같은 시각의 거래 기록이 이미 존재합니다")
	ErrOperationMismatch = errors.New("다른 운용의 데이터입니다")
)

// Store는 운용 하나의 포지션과 거래 기록을 보관하는 저장소입니다
type Store interface {
	// Position은 현재 포지션을 조회합니다
	Position(ctx context.Context) (domain.Position, error)

	// ApplyExecution은 포지션 갱신과 거래 기록 추가를 하나의 트랜잭션으로 적용합니다
	// 같은 시각의 거래 기록이 이미 있으면 ErrDuplicateTrade를 반환하고 아무것도 변경하지 않습니다.
	ApplyExecution(ctx context.Context, pos domain.Position, entry domain.TradeLogEntry) error

	// TradeLog는 거래 기록을 시간순으로 반환합니다
	TradeLog(ctx context.Context) ([]domain.TradeLogEntry, error)

	// Reset은 운용 재시작 시 포지션을 초기화하고 거래 기록을 비웁니다
	Reset(ctx context.Context, pos domain.Position) error

	// Close는 저장소가 사용하는 자원을 해제합니다
	Close() error
}

func clonePosition(p domain.Position) domain.Position {
	out := p
	if p.TradedPrice != nil {
		v := *p.TradedPrice
		out.TradedPrice = &v
	}
	if p.TradedAt != nil {
		v := *p.TradedAt
		out.TradedAt = &v
	}
	if p.DueToSignal != nil {
		v := *p.DueToSignal
		out.DueToSignal = &v
	}
	return out
}
