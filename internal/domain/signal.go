package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SpecialSignals는 허용된 특수 시그널 집합입니다
// NakedSell, DoubleSell, DoubleBuy만 포함할 수 있습니다.
type SpecialSignals map[Signal]struct{}

// IsSpecial은 허용 목록에 넣을 수 있는 특수 시그널인지 확인합니다
func IsSpecial(s Signal) bool {
	return s == NakedSell || s == DoubleSell || s == DoubleBuy
}

// NewSpecialSignals는 주어진 시그널로 집합을 생성합니다
// 특수 시그널이 아닌 값이 있으면 에러를 반환합니다.
func NewSpecialSignals(signals ...Signal) (SpecialSignals, error) {
	set := make(SpecialSignals, len(signals))
	for _, s := range signals {
		if !IsSpecial(s) {
			return nil, fmt.Errorf("허용할 수 없는 특수 시그널입니다: %q", s)
		}
		set[s] = struct{}{}
	}
	return set, nil
}

// ParseSpecialSignals는 설정 문자열 목록을 특수 시그널 집합으로 변환합니다
func ParseSpecialSignals(values []string) (SpecialSignals, error) {
	signals := make([]Signal, 0, len(values))
	for _, v := range values {
		signals = append(signals, Signal(strings.TrimSpace(v)))
	}
	return NewSpecialSignals(signals...)
}

// Contains는 시그널이 허용되어 있는지 확인합니다
// nil 집합은 빈 집합으로 취급합니다.
func (s SpecialSignals) Contains(signal Signal) bool {
	_, ok := s[signal]
	return ok
}

// String은 정렬된 목록 형태의 문자열을 반환합니다
func (s SpecialSignals) String() string {
	names := make([]string, 0, len(s))
	for signal := range s {
		names = append(names, string(signal))
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}
