package domain

// Side는 포지션의 현재 노출 방향을 정의합니다
type Side string

const (
	Zeroed Side = "Zeroed" // 포지션 없음
	Long   Side = "Long"   // 매수 보유
	Short  Side = "Short"  // 네이키드 매도 (보유 없이 숏 노출)
)

// IsValid는 정의된 Side 값인지 확인합니다
func (s Side) IsValid() bool {
	switch s {
	case Zeroed, Long, Short:
		return true
	default:
		return false
	}
}

// Signal은 포지션 전환에 따른 구체적인 매매 행위를 정의합니다
type Signal string

const (
	Hold                 Signal = "Hold"
	Buy                  Signal = "Buy"
	Sell                 Signal = "Sell"
	NakedSell            Signal = "NakedSell"
	DoubleBuy            Signal = "DoubleBuy"
	DoubleSell           Signal = "DoubleSell"
	StopFromLong         Signal = "StopFromLong"
	StopFromShort        Signal = "StopFromShort"
	SkippedDueToStopLoss Signal = "SkippedDueToStopLoss"
)

// IsStop은 손절로 인한 청산 시그널인지 확인합니다
func (s Signal) IsStop() bool {
	return s == StopFromLong || s == StopFromShort
}

// IsActionable은 실제 주문으로 이어질 수 있는 시그널인지 확인합니다
func (s Signal) IsActionable() bool {
	return s != Hold && s != SkippedDueToStopLoss && s != ""
}

// Mode는 운용 모드를 정의합니다
type Mode string

const (
	Advisor      Mode = "Advisor"      // 시그널만 알리고 거래하지 않음
	BackTesting  Mode = "BackTesting"  // 과거 데이터로 가상 거래
	RealTrading  Mode = "RealTrading"  // 실거래 (지원하지 않음)
	RealTimeTest Mode = "RealTimeTest" // 실시간 데이터로 가상 거래
)

// ParseMode는 문자열을 Mode로 변환합니다
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case Advisor, BackTesting, RealTrading, RealTimeTest:
		return m, true
	default:
		return "", false
	}
}

// TimeInterval은 캔들 차트의 시간 간격을 정의합니다
type TimeInterval string

const (
	Interval1m  TimeInterval = "1m"
	Interval3m  TimeInterval = "3m"
	Interval5m  TimeInterval = "5m"
	Interval15m TimeInterval = "15m"
	Interval30m TimeInterval = "30m"
	Interval1h  TimeInterval = "1h"
	Interval2h  TimeInterval = "2h"
	Interval4h  TimeInterval = "4h"
	Interval6h  TimeInterval = "6h"
	Interval8h  TimeInterval = "8h"
	Interval12h TimeInterval = "12h"
	Interval1d  TimeInterval = "1d"
)

// NotificationColor는 알림 색상 코드를 정의합니다
const (
	ColorSuccess = 0x00FF00 // 녹색
	ColorError   = 0xFF0000 // 빨간색
	ColorInfo    = 0x0000FF // 파란색
	ColorWarning = 0xFFA500 // 주황색
)
