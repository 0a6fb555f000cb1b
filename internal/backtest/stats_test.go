package backtest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/anansi/internal/domain"
)

func day(d int) int64 {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC).Unix()
}

func TestSummarize_RoundTrips(t *testing.T) {
	initial := domain.Balances{Base: 1000}
	trades := []domain.TradeLogEntry{
		{Timestamp: day(1), Signal: domain.Buy, Price: 100, QuoteAmount: 10, Fee: 1},
		{Timestamp: day(5), Signal: domain.Sell, Price: 110, QuoteAmount: 9.99, Fee: 1.0989},
		{Timestamp: day(10), Signal: domain.Buy, Price: 100, QuoteAmount: 10, Fee: 1},
		{Timestamp: day(15), Signal: domain.StopFromLong, Price: 90, QuoteAmount: 9.99, Fee: 0.8991},
	}
	final := domain.Position{Balances: domain.Balances{Base: 987.9}}

	report := Summarize(initial, trades, final, 90, time.Unix(day(20), 0).UTC())

	assert.Equal(t, 4, report.TotalTrades)
	assert.Equal(t, 2, report.RoundTrips)
	assert.Equal(t, 1, report.WinningTrades)
	assert.Equal(t, 1, report.LosingTrades)
	assert.InDelta(t, 50.0, report.WinRate, 1e-9)
	assert.InDelta(t, 1000.0, report.InitialEquity, 1e-9)
	assert.InDelta(t, 987.9, report.FinalEquity, 1e-9)
	assert.InDelta(t, -1.21, report.CumulativeReturn, 1e-9)
	assert.InDelta(t, 3.998, report.TotalFees, 1e-9)
	assert.Greater(t, report.MaxDrawdown, 0.0)

	require.Len(t, report.Trips, 2)
	assert.InDelta(t, 10.0, report.Trips[0].ProfitPct, 1e-9)
	assert.Equal(t, domain.StopFromLong, report.Trips[1].ExitSignal)
	assert.InDelta(t, 0.0, report.MonthlyReturns["2024-01"], 1e-9)

	// 체결 4건 + 평가 시점
	assert.Len(t, report.EquityCurve, 5)
}

func TestSummarize_OpenPositionValuedAtLastPrice(t *testing.T) {
	initial := domain.Balances{Base: 1000}
	trades := []domain.TradeLogEntry{
		{Timestamp: day(1), Signal: domain.Buy, Price: 100, QuoteAmount: 10, Fee: 1},
	}
	final := domain.Position{Side: domain.Long, Balances: domain.Balances{Quote: 9.99}}

	report := Summarize(initial, trades, final, 120, time.Unix(day(2), 0).UTC())

	assert.Equal(t, 0, report.RoundTrips)
	assert.InDelta(t, 1198.8, report.FinalEquity, 1e-9)
	assert.InDelta(t, 19.88, report.CumulativeReturn, 1e-9)
	assert.Zero(t, report.WinRate)
}

func TestSummarize_NoTrades(t *testing.T) {
	initial := domain.Balances{Base: 500}
	final := domain.Position{Balances: initial}

	report := Summarize(initial, nil, final, 100, time.Now())

	assert.Zero(t, report.TotalTrades)
	assert.InDelta(t, 500.0, report.FinalEquity, 1e-9)
	assert.Zero(t, report.CumulativeReturn)
	assert.Zero(t, report.AnnualizedReturn)
	assert.Zero(t, report.MaxDrawdown)
}

func TestCalculateDrawdownStats(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		equity   []float64
		expected float64
	}{
		{name: "빈 이력", equity: nil, expected: 0},
		{name: "상승만", equity: []float64{100, 110, 120}, expected: 0},
		{name: "단일 낙폭", equity: []float64{100, 80, 120}, expected: 20},
		{name: "최대 낙폭 선택", equity: []float64{100, 90, 200, 150, 210}, expected: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]EquityPoint, len(tt.equity))
			for i, v := range tt.equity {
				points[i] = EquityPoint{Timestamp: start.Add(time.Duration(i) * time.Hour), Equity: v}
			}
			maxDD, _, _ := CalculateDrawdownStats(points)
			assert.InDelta(t, tt.expected, maxDD, 1e-9)
		})
	}
}

func TestCalculateAnnualizedReturn(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(365 * 24 * time.Hour)

	assert.InDelta(t, 0.1, CalculateAnnualizedReturn(100, 110, start, end), 1e-9)
	assert.InDelta(t, 0.1, CalculateAnnualizedReturn(100, 110, start, start), 1e-9)
}

func TestReport_Write(t *testing.T) {
	report := Summarize(domain.Balances{Base: 1000}, []domain.TradeLogEntry{
		{Timestamp: day(1), Signal: domain.Buy, Price: 100, QuoteAmount: 10, Fee: 1},
		{Timestamp: day(5), Signal: domain.Sell, Price: 110, QuoteAmount: 9.99, Fee: 1.0989},
	}, domain.Position{Balances: domain.Balances{Base: 1097.8011}}, 110, time.Unix(day(6), 0).UTC())

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "승률")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "월별 2024-01")
}
