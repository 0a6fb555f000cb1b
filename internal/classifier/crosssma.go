package classifier

import (
	"context"
	"fmt"

	"github.com/assist-by/anansi/internal/config"
	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/indicator"
)

const CrossSMAName = "CrossSMA"

// CrossSMA는 짧은 이동평균이 긴 이동평균 위에 있으면 Long, 아니면 Zeroed를 제안합니다
type CrossSMA struct {
	timeFrame domain.TimeInterval
	metric    indicator.PriceMetric
	smaller   *indicator.SMA
	larger    *indicator.SMA
}

// NewCrossSMA는 설정으로부터 CrossSMA 분류기를 생성합니다
func NewCrossSMA(cfg config.ClassifierConfig) (Classifier, error) {
	metric := indicator.PriceMetric(cfg.PriceMetric)
	if !metric.IsValid() {
		return nil, fmt.Errorf("알 수 없는 가격 지표: %q", cfg.PriceMetric)
	}
	if domain.TimeIntervalToDuration(cfg.TimeFrame) == 0 {
		return nil, fmt.Errorf("지원하지 않는 캔들 간격: %q", cfg.TimeFrame)
	}
	if cfg.SmallerSample < 1 || cfg.LargerSample <= cfg.SmallerSample {
		return nil, fmt.Errorf("이동평균 기간이 유효하지 않습니다 (smaller=%d, larger=%d)",
			cfg.SmallerSample, cfg.LargerSample)
	}

	return &CrossSMA{
		timeFrame: cfg.TimeFrame,
		metric:    metric,
		smaller:   indicator.NewSMA(cfg.SmallerSample),
		larger:    indicator.NewSMA(cfg.LargerSample),
	}, nil
}

func (c *CrossSMA) GetName() string                { return CrossSMAName }
func (c *CrossSMA) TimeFrame() domain.TimeInterval { return c.timeFrame }
func (c *CrossSMA) CandlesNeeded() int             { return c.larger.Period }

// Analyze는 마지막 캔들 기준 두 이동평균을 비교합니다
func (c *CrossSMA) Analyze(_ context.Context, candles domain.CandleList) (Result, error) {
	if len(candles) < c.CandlesNeeded() {
		return Result{}, fmt.Errorf("캔들 데이터가 부족합니다. 필요: %d, 현재: %d", c.CandlesNeeded(), len(candles))
	}

	prices, err := indicator.ConvertCandlesToPriceData(candles.Last(c.CandlesNeeded()), c.metric)
	if err != nil {
		return Result{}, err
	}

	smaller, err := lastValue(c.smaller, prices)
	if err != nil {
		return Result{}, err
	}
	larger, err := lastValue(c.larger, prices)
	if err != nil {
		return Result{}, err
	}

	side := domain.Zeroed
	if smaller > larger {
		side = domain.Long
	}

	return Result{
		Side: side,
		Values: map[string]float64{
			"sma_smaller": smaller,
			"sma_larger":  larger,
		},
	}, nil
}

func lastValue(ind indicator.Indicator, prices []indicator.PriceData) (float64, error) {
	results, err := ind.Calculate(prices)
	if err != nil {
		return 0, fmt.Errorf("%s 계산 실패: %w", ind.GetName(), err)
	}
	last, ok := indicator.Last(results)
	if !ok {
		return 0, fmt.Errorf("%s 결과가 없습니다", ind.GetName())
	}
	return last.Value, nil
}
