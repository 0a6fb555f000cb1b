package indicator

import (
	"fmt"
	"time"

	"github.com/assist-by/anansi/internal/domain"
)

// PriceData는 지표 계산에 필요한 가격 정보를 정의합니다
type PriceData struct {
	Time  time.Time // 캔들 시작 시간
	Value float64   // 가격 지표 값
}

// Result는 지표 계산 결과 한 건입니다
type Result struct {
	Value     float64
	Timestamp time.Time
}

// ValidationError는 입력값 검증 에러를 정의합니다
type ValidationError struct {
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("유효하지 않은 %s: %v", e.Field, e.Err)
}

// Indicator는 모든 기술적 지표가 구현해야 하는 인터페이스입니다
type Indicator interface {
	// Calculate는 가격 데이터를 기반으로 지표를 계산합니다
	// 결과는 계산 가능한 첫 시점부터 시작합니다.
	Calculate(data []PriceData) ([]Result, error)

	// GetName은 지표의 이름을 반환합니다
	GetName() string
}

// ConvertCandlesToPriceData는 캔들 데이터를 지정한 가격 지표의 시계열로 변환합니다
func ConvertCandlesToPriceData(candles domain.CandleList, metric PriceMetric) ([]PriceData, error) {
	if !metric.IsValid() {
		return nil, &ValidationError{Field: "metric", Err: fmt.Errorf("알 수 없는 가격 지표: %q", metric)}
	}

	priceData := make([]PriceData, len(candles))
	for i, candle := range candles {
		priceData[i] = PriceData{
			Time:  candle.OpenTime,
			Value: metric.Of(candle),
		}
	}
	return priceData, nil
}

// Last는 마지막 결과를 반환합니다
func Last(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	return results[len(results)-1], true
}
