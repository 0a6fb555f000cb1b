package order

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/assist-by/anansi/internal/domain"
)

func TestAmountFor(t *testing.T) {
	tests := []struct {
		name     string
		signal   domain.Signal
		price    float64
		balances domain.Balances
		unit     float64
		want     float64
	}{
		{"buy spends all base", domain.Buy, 100, domain.Balances{Base: 1000}, 0.001, 10},
		{"stop from short spends all base", domain.StopFromShort, 100, domain.Balances{Base: 1000}, 0.001, 10},
		{"sell all quote", domain.Sell, 110, domain.Balances{Quote: 9.99}, 0.001, 9.99},
		{"stop from long sells all quote", domain.StopFromLong, 110, domain.Balances{Quote: 9.99}, 0.001, 9.99},
		{"buy floors to unit", domain.Buy, 3, domain.Balances{Base: 1000}, 0.01, 333.33},
		{"sell floors to unit", domain.Sell, 1, domain.Balances{Quote: 1.23456}, 0.001, 1.234},
		{"below unit floors to zero", domain.Buy, 100, domain.Balances{Base: 0.05}, 0.001, 0},
		{"hold", domain.Hold, 100, domain.Balances{Quote: 1, Base: 1000}, 0.001, 0},
		{"naked sell is not sized", domain.NakedSell, 100, domain.Balances{Quote: 1, Base: 1000}, 0.001, 0},
		{"double buy is not sized", domain.DoubleBuy, 100, domain.Balances{Quote: 1, Base: 1000}, 0.001, 0},
		{"zero price", domain.Buy, 0, domain.Balances{Base: 1000}, 0.001, 0},
		{"negative price", domain.Buy, -5, domain.Balances{Base: 1000}, 0.001, 0},
		{"nan price", domain.Buy, math.NaN(), domain.Balances{Base: 1000}, 0.001, 0},
		{"nan balance", domain.Sell, 100, domain.Balances{Quote: math.NaN()}, 0.001, 0},
		{"infinite balance", domain.Buy, 100, domain.Balances{Base: math.Inf(1)}, 0.001, 0},
		{"negative balance", domain.Sell, 100, domain.Balances{Quote: -1}, 0.001, 0},
		{"zero unit", domain.Sell, 100, domain.Balances{Quote: 1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountFor(tt.signal, tt.price, tt.balances, tt.unit)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAmountFor_IsExactMultipleNotAboveRaw(t *testing.T) {
	units := []float64{0.000001, 0.001, 0.01, 0.5}
	prices := []float64{0.37, 3, 99.99, 27123.45}
	bases := []float64{0, 0.0004, 1, 1000, 12345.678}

	for _, unit := range units {
		for _, price := range prices {
			for _, base := range bases {
				balances := domain.Balances{Quote: base / 7, Base: base}
				for _, signal := range []domain.Signal{domain.Buy, domain.Sell} {
					got := AmountFor(signal, price, balances, unit)

					raw := balances.Quote
					if signal == domain.Buy {
						raw = balances.Base / price
					}
					assert.GreaterOrEqual(t, got, 0.0)
					assert.LessOrEqual(t, got, raw+1e-12)

					multiple := decimal.NewFromFloat(got).Div(decimal.NewFromFloat(unit))
					assert.True(t, multiple.Equal(multiple.Floor()),
						"unit=%v price=%v base=%v signal=%s got=%v", unit, price, base, signal, got)

					// 같은 입력이면 같은 결과
					assert.Equal(t, got, AmountFor(signal, price, balances, unit))
				}
			}
		}
	}
}
