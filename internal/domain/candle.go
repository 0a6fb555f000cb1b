package domain

import "time"

// Candle은 캔들 데이터를 표현합니다
type Candle struct {
	OpenTime  time.Time    // 캔들 시작 시간
	CloseTime time.Time    // 캔들 종료 시간
	Open      float64      // 시가
	High      float64      // 고가
	Low       float64      // 저가
	Close     float64      // 종가
	Volume    float64      // 거래량
	Symbol    string       // 심볼 (예: BTCUSDT)
	Interval  TimeInterval // 시간 간격 (예: 15m, 1h)
}

// CandleList는 캔들 데이터 목록입니다
type CandleList []Candle

// GetLastCandle은 가장 최근 캔들을 반환합니다
func (cl CandleList) GetLastCandle() (Candle, bool) {
	if len(cl) == 0 {
		return Candle{}, false
	}
	return cl[len(cl)-1], true
}

// Until은 until 시점 이전에 열린 캔들만 남긴 부분 리스트를 반환합니다
// 캔들은 OpenTime 오름차순으로 정렬되어 있어야 합니다
func (cl CandleList) Until(until time.Time) CandleList {
	end := len(cl)
	for end > 0 && cl[end-1].OpenTime.After(until) {
		end--
	}
	return cl[:end]
}

// Last는 마지막 n개의 캔들을 반환합니다
func (cl CandleList) Last(n int) CandleList {
	if n <= 0 {
		return CandleList{}
	}
	if n >= len(cl) {
		return cl
	}
	return cl[len(cl)-n:]
}
