package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"
)

// SMA는 단순이동평균 지표를 구현합니다
type SMA struct {
	Period int // 이동평균 기간
}

// NewSMA는 새로운 SMA 지표 인스턴스를 생성합니다
func NewSMA(period int) *SMA {
	return &SMA{Period: period}
}

// GetName은 지표의 이름을 반환합니다
func (s *SMA) GetName() string {
	return fmt.Sprintf("SMA(%d)", s.Period)
}

// Calculate는 주어진 가격 데이터에 대해 SMA를 계산합니다
func (s *SMA) Calculate(prices []PriceData) ([]Result, error) {
	if err := s.validateInput(prices); err != nil {
		return nil, err
	}

	values := make([]float64, len(prices))
	for i, p := range prices {
		values[i] = p.Value
	}

	sma := talib.Sma(values, s.Period)

	// 앞쪽 Period-1개는 계산 불가 구간
	results := make([]Result, 0, len(prices)-s.Period+1)
	for i := s.Period - 1; i < len(prices); i++ {
		results = append(results, Result{Value: sma[i], Timestamp: prices[i].Time})
	}
	return results, nil
}

// validateInput은 입력 데이터가 유효한지 검증합니다
func (s *SMA) validateInput(prices []PriceData) error {
	if s.Period <= 0 {
		return &ValidationError{Field: "period", Err: fmt.Errorf("period must be > 0")}
	}
	if len(prices) == 0 {
		return &ValidationError{Field: "prices", Err: fmt.Errorf("가격 데이터가 비어있습니다")}
	}
	if len(prices) < s.Period {
		return &ValidationError{
			Field: "prices",
			Err:   fmt.Errorf("가격 데이터가 부족합니다. 필요: %d, 현재: %d", s.Period, len(prices)),
		}
	}
	return nil
}
