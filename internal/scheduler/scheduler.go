package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Task는 스케줄러가 실행할 작업을 정의하는 인터페이스입니다
type Task interface {
	// Execute는 정렬된 실행 시각 at을 받아 작업을 수행합니다
	Execute(ctx context.Context, at time.Time) error
}

// TaskFunc는 함수를 Task로 사용하기 위한 어댑터입니다
type TaskFunc func(ctx context.Context, at time.Time) error

func (f TaskFunc) Execute(ctx context.Context, at time.Time) error {
	return f(ctx, at)
}

// Scheduler는 interval 경계마다 작업을 실행하는 스케줄러입니다
type Scheduler struct {
	interval time.Duration
	delay    time.Duration // 경계 이후 추가 대기 (캔들 마감 반영용)
	task     Task
	logger   *logrus.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// Option은 스케줄러 옵션을 정의합니다
type Option func(*Scheduler)

// WithDelay는 경계 시각 이후 실행까지의 추가 대기 시간을 설정합니다
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.delay = d
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler는 새로운 스케줄러를 생성합니다
func NewScheduler(interval time.Duration, task Task, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: interval,
		task:     task,
		logger:   logrus.StandardLogger(),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start는 스케줄러를 시작합니다
// ctx가 취소되거나 Stop이 호출될 때까지 블록됩니다.
func (s *Scheduler) Start(ctx context.Context) error {
	nextRun, waitDuration := s.next(time.Now())
	timer := time.NewTimer(waitDuration)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.stopCh:
			return nil

		case <-timer.C:
			// 작업 실행, 에러가 발생해도 계속 실행
			if err := s.task.Execute(ctx, nextRun); err != nil {
				s.logger.WithError(err).WithField("at", nextRun).Error("작업 실행 실패")
			}

			nextRun, waitDuration = s.next(time.Now())
			timer.Reset(waitDuration)
		}
	}
}

// next는 다음 경계 시각과 그때까지의 대기 시간을 계산합니다
func (s *Scheduler) next(now time.Time) (time.Time, time.Duration) {
	nextRun := now.Truncate(s.interval).Add(s.interval)
	waitDuration := nextRun.Add(s.delay).Sub(now)

	s.logger.WithFields(logrus.Fields{
		"wait":     waitDuration.Round(time.Second),
		"next_run": nextRun.Format("15:04:05"),
	}).Debug("다음 실행까지 대기")

	return nextRun, waitDuration
}

// Stop은 스케줄러를 중지합니다
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
