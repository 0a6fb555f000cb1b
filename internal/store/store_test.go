package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/anansi/internal/domain"
)

const testOperationID = "7c1f6a8e-2d51-4a3e-9b55-0f1c2e7d9a10"

func newSQLTestStore(t *testing.T, seed domain.Position) Store {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "anansi.db"))
	require.NoError(t, err)

	s := NewSQLStore(db, testOperationID)
	require.NoError(t, s.Reset(context.Background(), seed))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// 두 저장소 구현이 같은 의미를 가지는지 동일한 시나리오로 검증
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	seed := domain.NewPosition(testOperationID, domain.Balances{Base: 1000})

	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore(seed))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newSQLTestStore(t, seed))
	})
}

func execution(ts int64, signal domain.Signal, side domain.Side, balances domain.Balances, price float64) (domain.Position, domain.TradeLogEntry) {
	entry := domain.TradeLogEntry{
		ID:          fmt.Sprintf("trade-%d", ts),
		OperationID: testOperationID,
		Timestamp:   ts,
		Signal:      signal,
		Price:       price,
		QuoteAmount: 10,
		Fee:         1,
	}
	pos := domain.Position{
		OperationID: testOperationID,
		Side:        side,
		Balances:    balances,
		TradedPrice: &entry.Price,
		TradedAt:    &entry.Timestamp,
		DueToSignal: &entry.Signal,
	}
	return pos, entry
}

func TestStore_ApplyExecution(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		pos, entry := execution(100, domain.Buy, domain.Long, domain.Balances{Quote: 9.99}, 100)
		require.NoError(t, s.ApplyExecution(ctx, pos, entry))

		got, err := s.Position(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Long, got.Side)
		assert.Equal(t, domain.Balances{Quote: 9.99}, got.Balances)
		require.NotNil(t, got.TradedPrice)
		assert.Equal(t, 100.0, *got.TradedPrice)
		require.NotNil(t, got.TradedAt)
		assert.Equal(t, int64(100), *got.TradedAt)
		assert.Equal(t, domain.Buy, got.LastSignal())

		trades, err := s.TradeLog(ctx)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, entry, trades[0])
	})
}

func TestStore_DuplicateTimestampIsRejected(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		pos, entry := execution(100, domain.Buy, domain.Long, domain.Balances{Quote: 9.99}, 100)
		require.NoError(t, s.ApplyExecution(ctx, pos, entry))

		again, dup := execution(100, domain.Sell, domain.Zeroed, domain.Balances{Base: 5}, 50)
		dup.ID = "other"
		err := s.ApplyExecution(ctx, again, dup)
		assert.ErrorIs(t, err, ErrDuplicateTrade)

		got, err := s.Position(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Long, got.Side, "거절된 실행은 포지션을 변경하지 않아야 합니다")
		assert.Equal(t, domain.Balances{Quote: 9.99}, got.Balances)

		trades, err := s.TradeLog(ctx)
		require.NoError(t, err)
		assert.Len(t, trades, 1)
	})
}

func TestStore_TradeLogIsOrderedByTimestamp(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		for _, ts := range []int64{100, 200, 300} {
			pos, entry := execution(ts, domain.Buy, domain.Long, domain.Balances{Quote: 1}, float64(ts))
			require.NoError(t, s.ApplyExecution(ctx, pos, entry))
		}

		trades, err := s.TradeLog(ctx)
		require.NoError(t, err)
		require.Len(t, trades, 3)
		for i := 1; i < len(trades); i++ {
			assert.Less(t, trades[i-1].Timestamp, trades[i].Timestamp)
		}
	})
}

func TestStore_OperationMismatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		pos, entry := execution(100, domain.Buy, domain.Long, domain.Balances{Quote: 1}, 100)
		pos.OperationID = "someone-else"

		err := s.ApplyExecution(context.Background(), pos, entry)
		assert.ErrorIs(t, err, ErrOperationMismatch)
	})
}

func TestStore_Reset(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		pos, entry := execution(100, domain.Buy, domain.Long, domain.Balances{Quote: 1}, 100)
		require.NoError(t, s.ApplyExecution(ctx, pos, entry))

		fresh := domain.NewPosition(testOperationID, domain.Balances{Base: 500})
		require.NoError(t, s.Reset(ctx, fresh))

		got, err := s.Position(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Zeroed, got.Side)
		assert.Equal(t, domain.Balances{Base: 500}, got.Balances)
		assert.Nil(t, got.TradedPrice)
		assert.Nil(t, got.DueToSignal)

		trades, err := s.TradeLog(ctx)
		require.NoError(t, err)
		assert.Empty(t, trades)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(domain.NewPosition(testOperationID, domain.Balances{Base: 1}))

	pos, entry := execution(1, domain.Buy, domain.Long, domain.Balances{Quote: 1}, 10)
	require.NoError(t, s.ApplyExecution(ctx, pos, entry))

	// 호출자가 가진 포인터를 바꿔도 저장된 값은 유지
	*pos.TradedPrice = 999

	got, err := s.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *got.TradedPrice)
}

func TestSQLStore_PositionNotFound(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)

	s := NewSQLStore(db, testOperationID)
	defer s.Close()

	_, err = s.Position(context.Background())
	assert.ErrorIs(t, err, ErrPositionNotFound)

	pos, entry := execution(1, domain.Buy, domain.Long, domain.Balances{Quote: 1}, 10)
	err = s.ApplyExecution(context.Background(), pos, entry)
	assert.ErrorIs(t, err, ErrPositionNotFound)

	trades, err := s.TradeLog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades, "실패한 트랜잭션은 거래 기록을 남기지 않아야 합니다")
}
