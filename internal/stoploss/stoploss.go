package stoploss

import (
	"fmt"

	"github.com/assist-by/anansi/internal/config"
	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/indicator"
)

const StopTrailing3TName = "StopTrailing3T"

// Threshold는 최근 Measurements개 측정값 중 Positives개 이상이 조건을 만족해야 함을 뜻합니다
type Threshold struct {
	Measurements int
	Positives    int
}

// NewThreshold는 Positives를 Measurements 이하로 제한한 Threshold를 생성합니다
func NewThreshold(measurements, positives int) Threshold {
	if positives > measurements {
		positives = measurements
	}
	return Threshold{Measurements: measurements, Positives: positives}
}

// Trigger는 기준가 대비 Rate(%) 이상 움직인 측정값이 Threshold를 채우면 발동합니다
type Trigger struct {
	Rate      float64
	Threshold Threshold
}

func newTrigger(c config.TriggerConfig) (Trigger, error) {
	if c.Rate <= 0 || c.Measurements < 1 || c.Positives < 1 {
		return Trigger{}, fmt.Errorf("트리거 설정이 유효하지 않습니다: %+v", c)
	}
	return Trigger{Rate: c.Rate, Threshold: NewThreshold(c.Measurements, c.Positives)}, nil
}

// count는 최근 Measurements개 가격 중 조건을 만족하는 개수를 반환합니다
func (t Trigger) count(prices []float64, hit func(price, rate float64) bool) int {
	if len(prices) > t.Threshold.Measurements {
		prices = prices[len(prices)-t.Threshold.Measurements:]
	}
	n := 0
	for _, p := range prices {
		if hit(p, t.Rate) {
			n++
		}
	}
	return n
}

func (t Trigger) fires(prices []float64, hit func(price, rate float64) bool) bool {
	return t.count(prices, hit) >= t.Threshold.Positives
}

// Result는 손절 판단 결과입니다
type Result struct {
	Stop    bool    // 손절 여부
	Trigger string  // 발동한 트리거 이름
	Target  float64 // 판단 기준가
}

// StopTrailing3T는 세 개의 트리거와 기준가 추적 규칙을 가진 추적 손절입니다
type StopTrailing3T struct {
	timeFrame domain.TimeInterval
	metric    indicator.PriceMetric
	triggers  []namedTrigger
	update    Trigger

	// 추적 상태: 마지막 체결 시각과 현재 기준가
	anchor *int64
	target float64
}

type namedTrigger struct {
	name string
	Trigger
}

// New는 설정으로부터 손절 판단기를 생성합니다
func New(cfg config.StopLossConfig) (*StopTrailing3T, error) {
	if cfg.Name != StopTrailing3TName {
		return nil, fmt.Errorf("존재하지 않는 손절 방식: %s", cfg.Name)
	}

	metric := indicator.PriceMetric(cfg.PriceMetric)
	if !metric.IsValid() {
		return nil, fmt.Errorf("알 수 없는 가격 지표: %q", cfg.PriceMetric)
	}
	if domain.TimeIntervalToDuration(cfg.TimeFrame) == 0 {
		return nil, fmt.Errorf("지원하지 않는 캔들 간격: %q", cfg.TimeFrame)
	}

	s := &StopTrailing3T{timeFrame: cfg.TimeFrame, metric: metric}
	for _, c := range []struct {
		name string
		cfg  config.TriggerConfig
	}{
		{"first", cfg.FirstTrigger},
		{"second", cfg.SecondTrigger},
		{"third", cfg.ThirdTrigger},
	} {
		trig, err := newTrigger(c.cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		s.triggers = append(s.triggers, namedTrigger{name: c.name, Trigger: trig})
	}

	update, err := newTrigger(cfg.UpdateTargetIf)
	if err != nil {
		return nil, fmt.Errorf("update_target_if: %w", err)
	}
	s.update = update
	return s, nil
}

func (s *StopTrailing3T) GetName() string                { return StopTrailing3TName }
func (s *StopTrailing3T) TimeFrame() domain.TimeInterval { return s.timeFrame }

// CandlesNeeded는 모든 트리거의 측정 개수 중 최댓값입니다
func (s *StopTrailing3T) CandlesNeeded() int {
	n := s.update.Threshold.Measurements
	for _, t := range s.triggers {
		if t.Threshold.Measurements > n {
			n = t.Threshold.Measurements
		}
	}
	return n
}

// Check는 포지션 방향에 반하는 가격 움직임으로 손절해야 하는지 판단합니다
// 손절하지 않은 경우 유리한 방향의 움직임이 충분하면 기준가를 마지막 가격으로 옮깁니다.
func (s *StopTrailing3T) Check(candles domain.CandleList, pos domain.Position) Result {
	if pos.Side == domain.Zeroed || pos.TradedPrice == nil || len(candles) == 0 {
		return Result{}
	}
	s.sync(pos)

	prices := make([]float64, 0, s.CandlesNeeded())
	for _, c := range candles.Last(s.CandlesNeeded()) {
		prices = append(prices, s.metric.Of(c))
	}

	against, favorable := s.predicates(pos.Side)
	for _, t := range s.triggers {
		if t.fires(prices, against) {
			return Result{Stop: true, Trigger: t.name, Target: s.target}
		}
	}

	if s.update.fires(prices, favorable) {
		s.target = prices[len(prices)-1]
	}
	return Result{Target: s.target}
}

// sync는 새 체결이 있으면 기준가를 체결가로 초기화합니다
func (s *StopTrailing3T) sync(pos domain.Position) {
	if s.anchor != nil && pos.TradedAt != nil && *s.anchor == *pos.TradedAt {
		return
	}
	s.target = *pos.TradedPrice
	s.anchor = nil
	if pos.TradedAt != nil {
		at := *pos.TradedAt
		s.anchor = &at
	}
}

func (s *StopTrailing3T) predicates(side domain.Side) (against, favorable func(price, rate float64) bool) {
	target := s.target
	if side == domain.Short {
		against = func(p, rate float64) bool { return p > target*(1+rate/100) }
		favorable = func(p, rate float64) bool { return p < target*(1-rate/100) }
		return
	}
	against = func(p, rate float64) bool { return p < target*(1-rate/100) }
	favorable = func(p, rate float64) bool { return p > target*(1+rate/100) }
	return
}
