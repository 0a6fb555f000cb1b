package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig는 재시도 설정을 정의합니다
type RetryConfig struct {
	MaxRetries int           // 최대 재시도 횟수
	BaseDelay  time.Duration // 기본 대기 시간
	MaxDelay   time.Duration // 최대 대기 시간
	Factor     float64       // 대기 시간 증가 계수
}

// DefaultRetryConfig는 기본 재시도 설정을 반환합니다
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Factor:     2,
	}
}

// IsRetryableError는 다시 시도할 가치가 있는 오류인지 확인합니다
func IsRetryableError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrNotEnoughData), errors.Is(err, ErrNoHistory):
		return false
	default:
		return true
	}
}

// WithRetry는 재시도 로직을 구현한 래퍼 함수입니다
func WithRetry(ctx context.Context, cfg RetryConfig, logger *logrus.Logger, operation string, fn func() error) error {
	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		// 재시도가 필요 없는 오류는 바로 반환
		if !IsRetryableError(err) {
			return err
		}

		if attempt == cfg.MaxRetries {
			return fmt.Errorf("%s 최대 재시도 횟수 초과: %w", operation, lastErr)
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"operation": operation,
			"attempt":   attempt + 1,
			"max":       cfg.MaxRetries,
		}).Warn("재시도합니다")

		// 다음 재시도 전 대기
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// 대기 시간을 증가시키되, 최대 대기 시간을 넘지 않도록 함
			delay = time.Duration(float64(delay) * cfg.Factor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return lastErr
}
