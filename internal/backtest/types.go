package backtest

import (
	"time"

	"github.com/assist-by/anansi/internal/domain"
)

// Report는 운용 결과 요약입니다
type Report struct {
	TotalTrades      int                // 총 체결 횟수
	RoundTrips       int                // 진입-청산 완료 횟수
	WinningTrades    int                // 수익 청산 횟수
	LosingTrades     int                // 손실 청산 횟수
	WinRate          float64            // 승률 (%)
	InitialEquity    float64            // 시작 자산 (base 자산 단위)
	FinalEquity      float64            // 최종 자산 (base 자산 단위)
	CumulativeReturn float64            // 누적 수익률 (%)
	AnnualizedReturn float64            // 연율화 수익률 (%)
	MaxDrawdown      float64            // 최대 낙폭 (%)
	TotalFees        float64            // 총 수수료 (base 자산 단위)
	StartTime        time.Time          // 첫 체결 시간
	EndTime          time.Time          // 평가 시점
	Trips            []RoundTrip        // 개별 진입-청산 기록
	MonthlyReturns   map[string]float64 // 월별 수익률 합계 (%)
	EquityCurve      []EquityPoint      // 체결 시점별 자산
}

// RoundTrip은 롱 진입부터 청산까지의 거래 한 건입니다
type RoundTrip struct {
	EntryTime  time.Time     // 진입 시간
	ExitTime   time.Time     // 청산 시간
	EntryPrice float64       // 진입 가격
	ExitPrice  float64       // 청산 가격
	ProfitPct  float64       // 수익률 (%)
	ExitSignal domain.Signal // 청산 시그널 (Sell, StopFromLong)
}

// EquityPoint는 특정 시점의 자산 평가액입니다
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}
