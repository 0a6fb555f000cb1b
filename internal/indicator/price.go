package indicator

import "github.com/assist-by/anansi/internal/domain"

// PriceMetric은 캔들에서 하나의 가격을 뽑는 방법입니다
type PriceMetric string

const (
	MetricOpen  PriceMetric = "o"
	MetricHigh  PriceMetric = "h"
	MetricLow   PriceMetric = "l"
	MetricClose PriceMetric = "c"
	MetricHL2   PriceMetric = "hl2"   // (고가+저가)/2
	MetricHLC3  PriceMetric = "hlc3"  // (고가+저가+종가)/3
	MetricOHLC4 PriceMetric = "ohlc4" // (시가+고가+저가+종가)/4
)

// IsValid는 지원하는 가격 지표인지 확인합니다
func (m PriceMetric) IsValid() bool {
	switch m {
	case MetricOpen, MetricHigh, MetricLow, MetricClose, MetricHL2, MetricHLC3, MetricOHLC4:
		return true
	default:
		return false
	}
}

// Of는 캔들 하나의 가격 지표 값을 계산합니다
func (m PriceMetric) Of(c domain.Candle) float64 {
	switch m {
	case MetricOpen:
		return c.Open
	case MetricHigh:
		return c.High
	case MetricLow:
		return c.Low
	case MetricClose:
		return c.Close
	case MetricHL2:
		return (c.High + c.Low) / 2
	case MetricHLC3:
		return (c.High + c.Low + c.Close) / 3
	case MetricOHLC4:
		return (c.Open + c.High + c.Low + c.Close) / 4
	default:
		return 0
	}
}
