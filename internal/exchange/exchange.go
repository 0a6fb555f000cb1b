// internal/exchange/exchange.go
package exchange

import (
	"context"
	"time"

	"github.com/assist-by/anansi/internal/domain"
)

// KlineSource는 거래소에서 캔들 데이터를 가져오는 인터페이스입니다.
type KlineSource interface {
	// GetKlines는 until 시점 이전에 열린 캔들을 최대 limit개까지 오래된 순으로 반환합니다
	GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, until time.Time, limit int) (domain.CandleList, error)
}

// Exchange는 운용에 필요한 거래소 기능을 묶은 인터페이스입니다.
type Exchange interface {
	KlineSource

	// MarketRules는 거래 쌍의 최소 거래 단위와 수수료율을 반환합니다
	MarketRules(ctx context.Context, symbol string) (domain.MarketRules, error)
}
