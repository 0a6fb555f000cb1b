package order

import (
	"errors"
	"fmt"
)

// Error 타입들은 주문 처리 중 발생할 수 있는 에러를 정의합니다
var (
	ErrInvalidInput     = errors.New("유효하지 않은 입력입니다")
	ErrPersistence      = errors.New("포지션 저장에 실패했습니다")
	ErrModeNotSupported = errors.New("지원하지 않는 운용 모드입니다")
	ErrInvalidRules     = errors.New("거래소 규칙이 유효하지 않습니다")
)

// OrderError는 주문 처리 에러를 확장한 구조체입니다
type OrderError struct {
	OperationID string
	Op          string
	Err         error
}

// Error는 error 인터페이스를 구현합니다
func (e *OrderError) Error() string {
	if e.OperationID != "" {
		return fmt.Sprintf("주문 에러 [%s, 작업: %s]: %v", e.OperationID, e.Op, e.Err)
	}
	return fmt.Sprintf("주문 에러 [작업: %s]: %v", e.Op, e.Err)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError는 새로운 OrderError를 생성합니다
func NewOrderError(operationID, op string, err error) *OrderError {
	return &OrderError{
		OperationID: operationID,
		Op:          op,
		Err:         err,
	}
}
