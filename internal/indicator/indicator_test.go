package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/anansi/internal/domain"
)

func TestPriceMetric_Of(t *testing.T) {
	c := domain.Candle{Open: 10, High: 16, Low: 8, Close: 14}

	tests := []struct {
		metric PriceMetric
		want   float64
	}{
		{MetricOpen, 10},
		{MetricHigh, 16},
		{MetricLow, 8},
		{MetricClose, 14},
		{MetricHL2, 12},
		{MetricHLC3, 38.0 / 3},
		{MetricOHLC4, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			assert.True(t, tt.metric.IsValid())
			assert.InDelta(t, tt.want, tt.metric.Of(c), 1e-12)
		})
	}

	assert.False(t, PriceMetric("vwap").IsValid())
}

func candlesFromCloses(closes ...float64) domain.CandleList {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make(domain.CandleList, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     c, High: c, Low: c, Close: c,
		}
	}
	return candles
}

func TestSMA(t *testing.T) {
	prices, err := ConvertCandlesToPriceData(candlesFromCloses(1, 2, 3, 4, 5, 6), MetricClose)
	require.NoError(t, err)

	results, err := NewSMA(3).Calculate(prices)
	require.NoError(t, err)
	require.Len(t, results, 4)

	want := []float64{2, 3, 4, 5}
	for i, r := range results {
		assert.InDelta(t, want[i], r.Value, 1e-12)
	}
	assert.Equal(t, prices[2].Time, results[0].Timestamp)

	last, ok := Last(results)
	require.True(t, ok)
	assert.InDelta(t, 5.0, last.Value, 1e-12)
}

func TestSMA_SinglePeriod(t *testing.T) {
	prices, err := ConvertCandlesToPriceData(candlesFromCloses(7, 9), MetricOHLC4)
	require.NoError(t, err)

	results, err := NewSMA(1).Calculate(prices)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, 9.0, results[1].Value, 1e-12)
}

func TestSMA_ValidateInput(t *testing.T) {
	prices, err := ConvertCandlesToPriceData(candlesFromCloses(1, 2), MetricClose)
	require.NoError(t, err)

	tests := []struct {
		name   string
		period int
		prices []PriceData
	}{
		{"zero period", 0, prices},
		{"empty prices", 2, nil},
		{"not enough prices", 3, prices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSMA(tt.period).Calculate(tt.prices)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestConvertCandlesToPriceData_UnknownMetric(t *testing.T) {
	_, err := ConvertCandlesToPriceData(candlesFromCloses(1), PriceMetric("x"))
	assert.Error(t, err)
}
