package market

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/assist-by/anansi/internal/domain"
)

// Error 타입들은 시세 조회 중 발생할 수 있는 에러를 정의합니다
var (
	ErrNotEnoughData = errors.New("캔들 데이터가 부족합니다")
	ErrNoHistory     = errors.New("해당 간격의 과거 데이터가 없습니다")
)

// Feed는 트레이더가 사용하는 캔들 공급자입니다
type Feed interface {
	// Klines는 until 시점까지 마감된 캔들 중 마지막 n개를 오래된 순으로 반환합니다
	Klines(ctx context.Context, interval domain.TimeInterval, n int, until time.Time) (domain.CandleList, error)
}

// closedBy는 until 시점까지 마감된 캔들만 남깁니다
// 캔들은 OpenTime 오름차순으로 정렬되어 있어야 합니다
func closedBy(candles domain.CandleList, interval domain.TimeInterval, until time.Time) domain.CandleList {
	step := domain.TimeIntervalToDuration(interval)
	end := sort.Search(len(candles), func(i int) bool {
		return candles[i].OpenTime.Add(step).After(until)
	})
	return candles[:end]
}
