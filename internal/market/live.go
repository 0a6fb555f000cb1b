package market

import (
	"context"
	"fmt"
	"time"

	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/exchange"
)

const defaultRecordsPerRequest = 500

// LiveFeed는 거래소에서 바로 캔들을 조회하는 Feed입니다
type LiveFeed struct {
	source            exchange.KlineSource
	symbol            string
	recordsPerRequest int
}

// LiveFeedOption은 LiveFeed의 옵션을 정의합니다
type LiveFeedOption func(*LiveFeed)

// WithRecordsPerRequest는 요청 한 번에 조회할 캔들 수를 설정합니다
func WithRecordsPerRequest(n int) LiveFeedOption {
	return func(f *LiveFeed) {
		if n > 0 {
			f.recordsPerRequest = n
		}
	}
}

// NewLiveFeed는 새로운 LiveFeed를 생성합니다
func NewLiveFeed(source exchange.KlineSource, symbol string, opts ...LiveFeedOption) *LiveFeed {
	f := &LiveFeed{
		source:            source,
		symbol:            symbol,
		recordsPerRequest: defaultRecordsPerRequest,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Klines는 마감되지 않은 마지막 캔들을 제외하고 n개의 캔들을 반환합니다
func (f *LiveFeed) Klines(ctx context.Context, interval domain.TimeInterval, n int, until time.Time) (domain.CandleList, error) {
	if n < 1 {
		return nil, fmt.Errorf("조회할 캔들 수는 1 이상이어야 합니다: %d", n)
	}

	// 진행 중인 캔들 하나를 감안해 하나 더 조회
	candles, err := fetchBackward(ctx, f.source, f.symbol, interval, until, n+1, f.recordsPerRequest)
	if err != nil {
		return nil, err
	}

	candles = closedBy(candles, interval, until)
	if len(candles) < n {
		return nil, fmt.Errorf("%w: 필요 %d, 현재 %d", ErrNotEnoughData, n, len(candles))
	}
	return candles.Last(n), nil
}

// fetchBackward는 until부터 과거 방향으로 페이지를 넘기며 최대 total개의 캔들을 모읍니다
func fetchBackward(ctx context.Context, source exchange.KlineSource, symbol string, interval domain.TimeInterval, until time.Time, total, perRequest int) (domain.CandleList, error) {
	var out domain.CandleList
	cursor := until

	for len(out) < total {
		limit := total - len(out)
		if limit > perRequest {
			limit = perRequest
		}

		page, err := source.GetKlines(ctx, symbol, interval, cursor, limit)
		if err != nil {
			return nil, fmt.Errorf("캔들 조회 실패 (%s %s): %w", symbol, interval, err)
		}
		if len(page) == 0 {
			break
		}

		merged := make(domain.CandleList, 0, len(page)+len(out))
		merged = append(merged, page...)
		out = append(merged, out...)
		cursor = page[0].OpenTime.Add(-time.Millisecond)

		if len(page) < limit {
			break
		}
	}
	return out, nil
}
