package domain

import (
	"fmt"
	"time"
)

var intervalDurations = map[TimeInterval]time.Duration{
	Interval1m:  time.Minute,
	Interval3m:  3 * time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval2h:  2 * time.Hour,
	Interval4h:  4 * time.Hour,
	Interval6h:  6 * time.Hour,
	Interval8h:  8 * time.Hour,
	Interval12h: 12 * time.Hour,
	Interval1d:  24 * time.Hour,
}

// TimeIntervalToDuration은 캔들 간격을 time.Duration으로 변환합니다
// 알 수 없는 간격이면 0을 반환합니다
func TimeIntervalToDuration(interval TimeInterval) time.Duration {
	return intervalDurations[interval]
}

// ParseTimeInterval은 문자열을 지원되는 TimeInterval로 변환합니다
func ParseTimeInterval(s string) (TimeInterval, error) {
	interval := TimeInterval(s)
	if _, ok := intervalDurations[interval]; !ok {
		return "", fmt.Errorf("지원하지 않는 캔들 간격입니다: %q", s)
	}
	return interval, nil
}

// Seconds는 캔들 간격을 초 단위로 반환합니다
func (i TimeInterval) Seconds() int64 {
	return int64(TimeIntervalToDuration(i) / time.Second)
}
