package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/anansi/internal/domain"
)

func specialSets(t *testing.T) map[string]domain.SpecialSignals {
	t.Helper()

	build := func(signals ...domain.Signal) domain.SpecialSignals {
		set, err := domain.NewSpecialSignals(signals...)
		require.NoError(t, err)
		return set
	}

	return map[string]domain.SpecialSignals{
		"nil":         nil,
		"empty":       build(),
		"naked":       build(domain.NakedSell),
		"double sell": build(domain.DoubleSell),
		"double buy":  build(domain.DoubleBuy),
		"all":         build(domain.NakedSell, domain.DoubleSell, domain.DoubleBuy),
	}
}

func TestGenerator_Process(t *testing.T) {
	none, err := domain.NewSpecialSignals()
	require.NoError(t, err)
	all, err := domain.NewSpecialSignals(domain.NakedSell, domain.DoubleSell, domain.DoubleBuy)
	require.NoError(t, err)

	tests := []struct {
		name       string
		from, to   domain.Side
		dueToStop  bool
		allowed    domain.SpecialSignals
		wantSignal domain.Signal
		wantSide   domain.Side
	}{
		{"zeroed to long", domain.Zeroed, domain.Long, false, none, domain.Buy, domain.Long},
		{"zeroed to short allowed", domain.Zeroed, domain.Short, false, all, domain.NakedSell, domain.Short},
		{"zeroed to short not allowed", domain.Zeroed, domain.Short, false, none, domain.Hold, domain.Zeroed},
		{"long to zeroed by stop", domain.Long, domain.Zeroed, true, none, domain.StopFromLong, domain.Zeroed},
		{"long to zeroed", domain.Long, domain.Zeroed, false, none, domain.Sell, domain.Zeroed},
		{"long to short allowed", domain.Long, domain.Short, false, all, domain.DoubleSell, domain.Short},
		{"long to short not allowed", domain.Long, domain.Short, false, none, domain.Sell, domain.Zeroed},
		{"short to zeroed by stop", domain.Short, domain.Zeroed, true, none, domain.StopFromShort, domain.Zeroed},
		{"short to zeroed", domain.Short, domain.Zeroed, false, none, domain.Buy, domain.Zeroed},
		{"short to long allowed", domain.Short, domain.Long, false, all, domain.DoubleBuy, domain.Long},
		{"short to long not allowed", domain.Short, domain.Long, false, none, domain.Buy, domain.Zeroed},
		{"long to short by stop keeps double rule", domain.Long, domain.Short, true, none, domain.Sell, domain.Zeroed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator()
			signal, side := g.Process(tt.from, tt.to, tt.dueToStop, tt.allowed)

			assert.Equal(t, tt.wantSignal, signal)
			assert.Equal(t, tt.wantSide, side)

			lastSignal, lastSide := g.Last()
			assert.Equal(t, signal, lastSignal)
			assert.Equal(t, side, lastSide)
		})
	}
}

func TestGenerator_SameSideAlwaysHolds(t *testing.T) {
	g := NewGenerator()

	for name, allowed := range specialSets(t) {
		for _, side := range []domain.Side{domain.Zeroed, domain.Long, domain.Short} {
			for _, dueToStop := range []bool{false, true} {
				signal, result := g.Process(side, side, dueToStop, allowed)
				assert.Equal(t, domain.Hold, signal, "allowed=%s side=%s stop=%v", name, side, dueToStop)
				assert.Equal(t, side, result, "allowed=%s side=%s stop=%v", name, side, dueToStop)
			}
		}
	}
}

func TestGenerator_NakedSellPolicy(t *testing.T) {
	g := NewGenerator()

	for name, allowed := range specialSets(t) {
		signal, side := g.Process(domain.Zeroed, domain.Short, false, allowed)
		if allowed.Contains(domain.NakedSell) {
			assert.Equal(t, domain.NakedSell, signal, name)
			assert.Equal(t, domain.Short, side, name)
		} else {
			assert.Equal(t, domain.Hold, signal, name)
			assert.Equal(t, domain.Zeroed, side, name)
		}
	}
}

func TestGenerator_StopFlagOnlyMattersWhenExiting(t *testing.T) {
	g := NewGenerator()

	for name, allowed := range specialSets(t) {
		signal, side := g.Process(domain.Long, domain.Zeroed, true, allowed)
		assert.Equal(t, domain.StopFromLong, signal, name)
		assert.Equal(t, domain.Zeroed, side, name)

		signal, side = g.Process(domain.Long, domain.Zeroed, false, allowed)
		assert.Equal(t, domain.Sell, signal, name)
		assert.Equal(t, domain.Zeroed, side, name)

		signal, _ = g.Process(domain.Zeroed, domain.Long, true, allowed)
		assert.Equal(t, domain.Buy, signal, name)
	}
}
