package domain

import (
	"fmt"
	"math"
)

// Balances는 거래 쌍의 두 자산 보유량을 표현합니다
// Quote는 거래 대상 자산(예: BTC), Base는 결제 자산(예: USDT)입니다.
// 거래소의 일반적인 명명과 반대이므로 주의가 필요합니다.
type Balances struct {
	Quote float64 // 거래 대상 자산 보유량
	Base  float64 // 결제 자산 보유량
}

// Validate는 잔고 값이 유한하고 음수가 아닌지 확인합니다
func (b Balances) Validate() error {
	if !isFiniteNonNegative(b.Quote) {
		return fmt.Errorf("quote 잔고가 유효하지 않습니다: %v", b.Quote)
	}
	if !isFiniteNonNegative(b.Base) {
		return fmt.Errorf("base 잔고가 유효하지 않습니다: %v", b.Base)
	}
	return nil
}

// MarketRules는 거래 쌍별 거래소 규칙을 정의합니다
type MarketRules struct {
	MinimalTradableUnit float64 // 최소 거래 단위
	FeeRateDecimal      float64 // 수수료율 (0.001 = 0.1%)
}

// Validate는 거래소 규칙이 유효한지 확인합니다
func (r MarketRules) Validate() error {
	if math.IsNaN(r.MinimalTradableUnit) || math.IsInf(r.MinimalTradableUnit, 0) || r.MinimalTradableUnit <= 0 {
		return fmt.Errorf("최소 거래 단위는 양수여야 합니다: %v", r.MinimalTradableUnit)
	}
	if math.IsNaN(r.FeeRateDecimal) || r.FeeRateDecimal <= 0 || r.FeeRateDecimal >= 1 {
		return fmt.Errorf("수수료율은 0과 1 사이여야 합니다: %v", r.FeeRateDecimal)
	}
	return nil
}

// Market은 운용 대상 거래소와 거래 쌍을 정의합니다
type Market struct {
	Exchange    string // 거래소 이름 (예: Binance)
	QuoteSymbol string // 거래 대상 자산 심볼 (예: BTC)
	BaseSymbol  string // 결제 자산 심볼 (예: USDT)
}

// Ticker는 거래소 심볼을 반환합니다 (예: BTCUSDT)
func (m Market) Ticker() string {
	return m.QuoteSymbol + m.BaseSymbol
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
