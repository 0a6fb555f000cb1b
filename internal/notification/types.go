package notification

import (
	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/order"
)

// Notifier는 알림 전송 인터페이스를 정의합니다
type Notifier interface {
	// SendExecution은 주문 실행 결과 알림을 전송합니다
	SendExecution(outcome *order.Outcome) error

	// SendError는 에러 알림을 전송합니다
	SendError(err error) error

	// SendInfo는 일반 정보 알림을 전송합니다
	SendInfo(message string) error
}

// Nop은 아무 알림도 보내지 않는 Notifier입니다
type Nop struct{}

func (Nop) SendExecution(*order.Outcome) error { return nil }
func (Nop) SendError(error) error              { return nil }
func (Nop) SendInfo(string) error              { return nil }

// GetColorForSignal은 시그널에 따른 색상을 반환합니다
func GetColorForSignal(signal domain.Signal) int {
	switch signal {
	case domain.Buy, domain.DoubleBuy:
		return domain.ColorSuccess
	case domain.Sell, domain.NakedSell, domain.DoubleSell:
		return domain.ColorError
	case domain.StopFromLong, domain.StopFromShort, domain.SkippedDueToStopLoss:
		return domain.ColorWarning
	default:
		return domain.ColorInfo
	}
}
