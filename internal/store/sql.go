package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/assist-by/anansi/internal/domain"
)

type positionRow struct {
	OperationID string `gorm:"primaryKey;size:36"`
	Side        string `gorm:"not null"`
	QuoteAmount float64
	BaseAmount  float64
	TradedPrice *float64
	TradedAt    *int64
	DueToSignal *string
	UpdatedAt   time.Time
}

func (positionRow) TableName() string { return "positions" }

type tradeLogRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	OperationID string `gorm:"not null;uniqueIndex:idx_trade_logs_operation_timestamp"`
	Timestamp   int64  `gorm:"not null;uniqueIndex:idx_trade_logs_operation_timestamp"`
	Signal      string `gorm:"not null"`
	Price       float64
	QuoteAmount float64
	Fee         float64 // base 자산 단위
	CreatedAt   time.Time
}

func (tradeLogRow) TableName() string { return "trade_logs" }

// OpenSQLite는 SQLite 데이터베이스를 열고 스키마를 준비합니다
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 연결 실패: %w", err)
	}

	if err := db.AutoMigrate(&positionRow{}, &tradeLogRow{}); err != nil {
		return nil, fmt.Errorf("스키마 마이그레이션 실패: %w", err)
	}
	return db, nil
}

// SQLStore는 gorm 기반의 운용별 저장소입니다
type SQLStore struct {
	db          *gorm.DB
	operationID string
}

// NewSQLStore는 운용 하나에 한정된 저장소를 생성합니다
func NewSQLStore(db *gorm.DB, operationID string) *SQLStore {
	return &SQLStore{db: db, operationID: operationID}
}

func (s *SQLStore) Position(ctx context.Context) (domain.Position, error) {
	var row positionRow
	err := s.db.WithContext(ctx).Where("operation_id = ?", s.operationID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Position{}, ErrPositionNotFound
	}
	if err != nil {
		return domain.Position{}, fmt.Errorf("포지션 조회 실패: %w", err)
	}
	return row.toDomain(), nil
}

func (s *SQLStore) ApplyExecution(ctx context.Context, pos domain.Position, entry domain.TradeLogEntry) error {
	if pos.OperationID != s.operationID || entry.OperationID != s.operationID {
		return fmt.Errorf("%w: %s", ErrOperationMismatch, pos.OperationID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&tradeLogRow{}).
			Where("operation_id = ? AND timestamp = ?", s.operationID, entry.Timestamp).
			Count(&count).Error; err != nil {
			return fmt.Errorf("거래 기록 조회 실패: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d", ErrDuplicateTrade, entry.Timestamp)
		}

		row := newPositionRow(pos)
		res := tx.Model(&positionRow{}).
			Where("operation_id = ?", s.operationID).
			Updates(map[string]interface{}{
				"side":          row.Side,
				"quote_amount":  row.QuoteAmount,
				"base_amount":   row.BaseAmount,
				"traded_price":  row.TradedPrice,
				"traded_at":     row.TradedAt,
				"due_to_signal": row.DueToSignal,
			})
		if res.Error != nil {
			return fmt.Errorf("포지션 갱신 실패: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPositionNotFound
		}

		if err := tx.Create(newTradeLogRow(entry)).Error; err != nil {
			return fmt.Errorf("거래 기록 생성 실패: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) TradeLog(ctx context.Context) ([]domain.TradeLogEntry, error) {
	var rows []tradeLogRow
	if err := s.db.WithContext(ctx).
		Where("operation_id = ?", s.operationID).
		Order("timestamp asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("거래 기록 조회 실패: %w", err)
	}

	out := make([]domain.TradeLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *SQLStore) Reset(ctx context.Context, pos domain.Position) error {
	if pos.OperationID != s.operationID {
		return fmt.Errorf("%w: %s", ErrOperationMismatch, pos.OperationID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("operation_id = ?", s.operationID).Delete(&tradeLogRow{}).Error; err != nil {
			return fmt.Errorf("거래 기록 삭제 실패: %w", err)
		}
		if err := tx.Save(newPositionRow(pos)).Error; err != nil {
			return fmt.Errorf("포지션 초기화 실패: %w", err)
		}
		return nil
	})
}

// Close는 데이터베이스 연결을 닫습니다
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("데이터베이스 핸들 조회 실패: %w", err)
	}
	return sqlDB.Close()
}

func newPositionRow(p domain.Position) *positionRow {
	row := &positionRow{
		OperationID: p.OperationID,
		Side:        string(p.Side),
		QuoteAmount: p.Balances.Quote,
		BaseAmount:  p.Balances.Base,
		TradedPrice: p.TradedPrice,
		TradedAt:    p.TradedAt,
	}
	if p.DueToSignal != nil {
		s := string(*p.DueToSignal)
		row.DueToSignal = &s
	}
	return row
}

func (r positionRow) toDomain() domain.Position {
	p := domain.Position{
		OperationID: r.OperationID,
		Side:        domain.Side(r.Side),
		Balances: domain.Balances{
			Quote: r.QuoteAmount,
			Base:  r.BaseAmount,
		},
		TradedPrice: r.TradedPrice,
		TradedAt:    r.TradedAt,
	}
	if r.DueToSignal != nil {
		s := domain.Signal(*r.DueToSignal)
		p.DueToSignal = &s
	}
	return p
}

func newTradeLogRow(e domain.TradeLogEntry) *tradeLogRow {
	return &tradeLogRow{
		ID:          e.ID,
		OperationID: e.OperationID,
		Timestamp:   e.Timestamp,
		Signal:      string(e.Signal),
		Price:       e.Price,
		QuoteAmount: e.QuoteAmount,
		Fee:         e.Fee,
	}
}

func (r tradeLogRow) toDomain() domain.TradeLogEntry {
	return domain.TradeLogEntry{
		ID:          r.ID,
		OperationID: r.OperationID,
		Timestamp:   r.Timestamp,
		Signal:      domain.Signal(r.Signal),
		Price:       r.Price,
		QuoteAmount: r.QuoteAmount,
		Fee:         r.Fee,
	}
}
