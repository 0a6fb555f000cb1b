package market

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/exchange"
)

// HistoricalFeed는 백테스트용으로 미리 적재한 캔들을 제공하는 Feed입니다
type HistoricalFeed struct {
	series map[domain.TimeInterval]domain.CandleList
}

// NewHistoricalFeed는 간격별 캔들로 HistoricalFeed를 생성합니다
// 각 목록은 시작 시간 오름차순으로 정렬됩니다.
func NewHistoricalFeed(series map[domain.TimeInterval]domain.CandleList) *HistoricalFeed {
	f := &HistoricalFeed{series: make(map[domain.TimeInterval]domain.CandleList, len(series))}
	for interval, candles := range series {
		sorted := make(domain.CandleList, len(candles))
		copy(sorted, candles)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].OpenTime.Before(sorted[j].OpenTime) })
		f.series[interval] = sorted
	}
	return f
}

// LoadHistorical은 [start, end] 구간의 캔들을 간격별로 모두 적재합니다
func LoadHistorical(ctx context.Context, source exchange.KlineSource, symbol string, intervals []domain.TimeInterval, start, end time.Time, perRequest int) (*HistoricalFeed, error) {
	if perRequest < 1 {
		perRequest = defaultRecordsPerRequest
	}

	series := make(map[domain.TimeInterval]domain.CandleList, len(intervals))
	for _, interval := range intervals {
		if _, ok := series[interval]; ok {
			continue
		}
		step := domain.TimeIntervalToDuration(interval)
		if step == 0 {
			return nil, fmt.Errorf("지원하지 않는 캔들 간격: %q", interval)
		}

		total := int(end.Sub(start)/step) + 1
		candles, err := fetchBackward(ctx, source, symbol, interval, end, total, perRequest)
		if err != nil {
			return nil, err
		}

		first := 0
		for first < len(candles) && candles[first].OpenTime.Before(start) {
			first++
		}
		series[interval] = candles[first:]
	}
	return NewHistoricalFeed(series), nil
}

// Klines는 until 시점까지 마감된 캔들 중 마지막 n개를 반환합니다
func (f *HistoricalFeed) Klines(_ context.Context, interval domain.TimeInterval, n int, until time.Time) (domain.CandleList, error) {
	candles, ok := f.series[interval]
	if !ok || len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, interval)
	}

	closed := closedBy(candles, interval, until)
	if len(closed) < n {
		return nil, fmt.Errorf("%w: 필요 %d, 현재 %d", ErrNotEnoughData, n, len(closed))
	}
	return closed.Last(n), nil
}

// Bounds는 해당 간격 데이터의 첫 캔들 시작 시간과 마지막 캔들 마감 시간을 반환합니다
func (f *HistoricalFeed) Bounds(interval domain.TimeInterval) (time.Time, time.Time, bool) {
	candles := f.series[interval]
	if len(candles) == 0 {
		return time.Time{}, time.Time{}, false
	}
	last := candles[len(candles)-1]
	return candles[0].OpenTime, last.OpenTime.Add(domain.TimeIntervalToDuration(interval)), true
}
