package classifier

import (
	"context"
	"fmt"
	"sort"

	"github.com/assist-by/anansi/internal/config"
	"github.com/assist-by/anansi/internal/domain"
)

// Result는 분류기 분석 결과입니다
type Result struct {
	Side      domain.Side        // 제안하는 포지션 방향
	DueToStop bool               // 손절 판단에 의한 결과 여부
	Values    map[string]float64 // 판단에 사용한 지표 값
}

// Classifier는 캔들 데이터로부터 목표 포지션 방향을 판단하는 인터페이스입니다
type Classifier interface {
	// Analyze는 주어진 캔들을 분석하여 목표 방향을 반환합니다
	Analyze(ctx context.Context, candles domain.CandleList) (Result, error)

	// GetName은 분류기의 이름을 반환합니다
	GetName() string

	// TimeFrame은 분석에 사용하는 캔들 간격을 반환합니다
	TimeFrame() domain.TimeInterval

	// CandlesNeeded는 한 번 분석에 필요한 캔들 개수를 반환합니다
	CandlesNeeded() int
}

// Factory는 분류기 인스턴스를 생성하는 함수 타입입니다
type Factory func(cfg config.ClassifierConfig) (Classifier, error)

// Registry는 사용 가능한 모든 분류기를 등록하고 관리합니다
type Registry struct {
	classifiers map[string]Factory
}

// NewRegistry는 새로운 분류기 레지스트리를 생성합니다
func NewRegistry() *Registry {
	return &Registry{
		classifiers: make(map[string]Factory),
	}
}

// DefaultRegistry는 기본 분류기가 등록된 레지스트리를 반환합니다
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CrossSMAName, NewCrossSMA)
	return r
}

// Register는 새로운 분류기 팩토리를 레지스트리에 등록합니다
func (r *Registry) Register(name string, factory Factory) {
	r.classifiers[name] = factory
}

// Create는 설정의 이름에 해당하는 분류기 인스턴스를 생성합니다
func (r *Registry) Create(cfg config.ClassifierConfig) (Classifier, error) {
	factory, exists := r.classifiers[cfg.Name]
	if !exists {
		return nil, fmt.Errorf("존재하지 않는 분류기: %s", cfg.Name)
	}
	return factory(cfg)
}

// List는 사용 가능한 모든 분류기 이름을 반환합니다
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.classifiers))
	for name := range r.classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
