package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/assist-by/anansi/internal/domain"
)

// MemoryStore는 메모리 기반 저장소입니다
// 자문 모드와 테스트에서 사용하며 SQLStore와 같은 의미를 가집니다.
type MemoryStore struct {
	operationID string
	position    *domain.Position
	trades      []domain.TradeLogEntry
	mu          sync.RWMutex
}

// NewMemoryStore는 초기 포지션으로 저장소를 생성합니다
func NewMemoryStore(pos domain.Position) *MemoryStore {
	p := clonePosition(pos)
	return &MemoryStore{
		operationID: pos.OperationID,
		position:    &p,
	}
}

func (m *MemoryStore) Position(_ context.Context) (domain.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.position == nil {
		return domain.Position{}, ErrPositionNotFound
	}
	return clonePosition(*m.position), nil
}

func (m *MemoryStore) ApplyExecution(_ context.Context, pos domain.Position, entry domain.TradeLogEntry) error {
	if pos.OperationID != m.operationID || entry.OperationID != m.operationID {
		return fmt.Errorf("%w: %s", ErrOperationMismatch, pos.OperationID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.position == nil {
		return ErrPositionNotFound
	}
	for _, t := range m.trades {
		if t.Timestamp == entry.Timestamp {
			return fmt.Errorf("%w: %d", ErrDuplicateTrade, entry.Timestamp)
		}
	}

	p := clonePosition(pos)
	m.position = &p
	m.trades = append(m.trades, entry)
	return nil
}

func (m *MemoryStore) TradeLog(_ context.Context) ([]domain.TradeLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.TradeLogEntry, len(m.trades))
	copy(out, m.trades)
	return out, nil
}

func (m *MemoryStore) Reset(_ context.Context, pos domain.Position) error {
	if pos.OperationID != m.operationID {
		return fmt.Errorf("%w: %s", ErrOperationMismatch, pos.OperationID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := clonePosition(pos)
	m.position = &p
	m.trades = nil
	return nil
}

func (m *MemoryStore) Close() error { return nil }
