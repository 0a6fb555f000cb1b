package order

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/assist-by/anansi/internal/domain"
)

// AmountFor는 시그널에 따른 거래 수량(quote 자산 단위)을 계산합니다
//
// Buy/StopFromShort는 보유한 base 자산 전부를 현재 가격으로 환산하고,
// Sell/StopFromLong은 보유한 quote 자산 전부를 매도합니다.
// 결과는 최소 거래 단위의 정수배로 내림되며, 입력이 유효하지 않으면 0을 반환합니다.
func AmountFor(signal domain.Signal, price float64, balances domain.Balances, minimalUnit float64) float64 {
	if !isPositiveFinite(price) || !isPositiveFinite(minimalUnit) {
		return 0
	}
	if balances.Validate() != nil {
		return 0
	}

	var raw decimal.Decimal
	switch signal {
	case domain.Buy, domain.StopFromShort:
		raw = decimal.NewFromFloat(balances.Base).Div(decimal.NewFromFloat(price))
	case domain.Sell, domain.StopFromLong:
		raw = decimal.NewFromFloat(balances.Quote)
	default:
		return 0
	}

	return floorToUnit(raw, decimal.NewFromFloat(minimalUnit)).InexactFloat64()
}

// floorToUnit은 값을 단위의 정수배로 내림합니다
func floorToUnit(value, unit decimal.Decimal) decimal.Decimal {
	return value.Div(unit).Floor().Mul(unit)
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
