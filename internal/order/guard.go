package order

import "github.com/assist-by/anansi/internal/domain"

// stopGuard는 손절 직후 같은 방향으로 바로 재진입하는 것을 막습니다
// 차단은 다른 방향의 요청이 들어오면 해제됩니다.
type stopGuard struct {
	enabled bool
	blocked domain.Side
}

func newStopGuard(enabled bool, last domain.Signal) *stopGuard {
	g := &stopGuard{enabled: enabled, blocked: domain.Zeroed}
	g.observe(last)
	return g
}

// filter는 차단 중인 재진입 시그널을 SkippedDueToStopLoss로 바꿉니다
func (g *stopGuard) filter(req domain.OrderRequest, signal domain.Signal, side domain.Side) (domain.Signal, domain.Side) {
	if !g.enabled || g.blocked == domain.Zeroed {
		return signal, side
	}
	if req.ToSide != g.blocked {
		g.blocked = domain.Zeroed
		return signal, side
	}
	if req.FromSide == domain.Zeroed && side == g.blocked {
		return domain.SkippedDueToStopLoss, req.FromSide
	}
	return signal, side
}

// observe는 체결된 시그널로 차단 상태를 갱신합니다
func (g *stopGuard) observe(signal domain.Signal) {
	switch signal {
	case domain.StopFromLong:
		g.blocked = domain.Long
	case domain.StopFromShort:
		g.blocked = domain.Short
	case "":
	default:
		g.blocked = domain.Zeroed
	}
}
