package order

import "github.com/assist-by/anansi/internal/domain"

// Generator는 포지션 전환 요청을 구체적인 시그널로 분류합니다
// 마지막으로 계산한 시그널과 결과 방향을 보관합니다.
type Generator struct {
	signal domain.Signal
	side   domain.Side
}

// NewGenerator는 새로운 시그널 생성기를 생성합니다
func NewGenerator() *Generator {
	return &Generator{
		signal: domain.Hold,
		side:   domain.Zeroed,
	}
}

// Process는 (현재 방향, 목표 방향, 손절 여부, 허용 특수 시그널)로부터
// 시그널과 실제 결과 방향을 계산합니다.
//
// 허용되지 않은 숏 진입은 Hold(Zeroed 유지)로, 허용되지 않은 더블 전환은
// 한 단계 전환(결과 방향 Zeroed)으로 강등됩니다.
func (g *Generator) Process(from, to domain.Side, dueToStop bool, allowed domain.SpecialSignals) (domain.Signal, domain.Side) {
	g.signal, g.side = classify(from, to, dueToStop, allowed)
	return g.signal, g.side
}

// Last는 마지막으로 계산한 시그널과 결과 방향을 반환합니다
func (g *Generator) Last() (domain.Signal, domain.Side) {
	return g.signal, g.side
}

func classify(from, to domain.Side, dueToStop bool, allowed domain.SpecialSignals) (domain.Signal, domain.Side) {
	if from == to {
		return domain.Hold, from
	}

	switch from {
	case domain.Zeroed:
		switch to {
		case domain.Long:
			return domain.Buy, domain.Long
		case domain.Short:
			if allowed.Contains(domain.NakedSell) {
				return domain.NakedSell, domain.Short
			}
			return domain.Hold, domain.Zeroed
		}

	case domain.Long:
		switch to {
		case domain.Zeroed:
			if dueToStop {
				return domain.StopFromLong, domain.Zeroed
			}
			return domain.Sell, domain.Zeroed
		case domain.Short:
			if allowed.Contains(domain.DoubleSell) {
				return domain.DoubleSell, domain.Short
			}
			return domain.Sell, domain.Zeroed
		}

	case domain.Short:
		switch to {
		case domain.Zeroed:
			if dueToStop {
				return domain.StopFromShort, domain.Zeroed
			}
			return domain.Buy, domain.Zeroed
		case domain.Long:
			if allowed.Contains(domain.DoubleBuy) {
				return domain.DoubleBuy, domain.Long
			}
			return domain.Buy, domain.Zeroed
		}
	}

	// 정의되지 않은 방향 값은 전환하지 않습니다
	return domain.Hold, from
}
