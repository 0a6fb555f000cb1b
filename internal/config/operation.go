package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/assist-by/anansi/internal/domain"
)

// Error 타입들은 운용 설정 로드 중 발생할 수 있는 에러를 정의합니다
var (
	ErrInvalidMode          = errors.New("알 수 없는 운용 모드입니다")
	ErrUnknownSpecialSignal = errors.New("허용할 수 없는 특수 시그널입니다")
	ErrInvalidOperation     = errors.New("운용 설정이 유효하지 않습니다")
)

const backtestDateLayout = "2006-01-02"

// Operation은 운용 하나의 정의입니다
type Operation struct {
	ID                    string           `mapstructure:"id"`
	Mode                  domain.Mode      `mapstructure:"mode"`
	Market                MarketConfig     `mapstructure:"market"`
	Classifier            ClassifierConfig `mapstructure:"classifier"`
	StopLoss              StopLossConfig   `mapstructure:"stop_loss"`
	AllowedSpecialSignals []string         `mapstructure:"allowed_special_signals"`
	HoldIfStopped         bool             `mapstructure:"hold_if_stopped"`
	InitialBalances       BalancesConfig   `mapstructure:"initial_balances"`
	Backtest              BacktestConfig   `mapstructure:"backtest"`

	// 로드 시 변환되는 값
	Allowed domain.SpecialSignals `mapstructure:"-"`
}

type MarketConfig struct {
	Exchange    string `mapstructure:"exchange"`
	QuoteSymbol string `mapstructure:"quote_symbol"`
	BaseSymbol  string `mapstructure:"base_symbol"`
}

type ClassifierConfig struct {
	Name          string              `mapstructure:"name"`
	TimeFrame     domain.TimeInterval `mapstructure:"time_frame"`
	PriceMetric   string              `mapstructure:"price_metric"`
	SmallerSample int                 `mapstructure:"smaller_sample"`
	LargerSample  int                 `mapstructure:"larger_sample"`
}

type TriggerConfig struct {
	Rate         float64 `mapstructure:"rate"`
	Measurements int     `mapstructure:"measurements"`
	Positives    int     `mapstructure:"positives"`
}

type StopLossConfig struct {
	Name           string              `mapstructure:"name"`
	Enabled        bool                `mapstructure:"enabled"`
	TimeFrame      domain.TimeInterval `mapstructure:"time_frame"`
	PriceMetric    string              `mapstructure:"price_metric"`
	FirstTrigger   TriggerConfig       `mapstructure:"first_trigger"`
	SecondTrigger  TriggerConfig       `mapstructure:"second_trigger"`
	ThirdTrigger   TriggerConfig       `mapstructure:"third_trigger"`
	UpdateTargetIf TriggerConfig       `mapstructure:"update_target_if"`
}

type BalancesConfig struct {
	Quote float64 `mapstructure:"quote"`
	Base  float64 `mapstructure:"base"`
}

type BacktestConfig struct {
	Start string `mapstructure:"start"` // YYYY-MM-DD (UTC)
	End   string `mapstructure:"end"`   // YYYY-MM-DD (UTC), 비어 있으면 현재 시각
}

// Seed는 운용 시작 잔고를 반환합니다
func (o *Operation) Seed() domain.Balances {
	return domain.Balances{Quote: o.InitialBalances.Quote, Base: o.InitialBalances.Base}
}

// MarketInfo는 거래 쌍 정보를 반환합니다
func (o *Operation) MarketInfo() domain.Market {
	return domain.Market{
		Exchange:    o.Market.Exchange,
		QuoteSymbol: o.Market.QuoteSymbol,
		BaseSymbol:  o.Market.BaseSymbol,
	}
}

// BacktestWindow는 백테스트 기간을 반환합니다
func (o *Operation) BacktestWindow(now time.Time) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(backtestDateLayout, o.Backtest.Start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: backtest.start %q", ErrInvalidOperation, o.Backtest.Start)
	}

	end := now.UTC()
	if o.Backtest.End != "" {
		if end, err = time.ParseInLocation(backtestDateLayout, o.Backtest.End, time.UTC); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: backtest.end %q", ErrInvalidOperation, o.Backtest.End)
		}
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 백테스트 시작이 종료보다 늦습니다", ErrInvalidOperation)
	}
	return start, end, nil
}

// LoadOperation은 YAML 파일과 ANANSI_ 접두사 환경변수에서 운용 설정을 로드합니다
// path가 비어 있으면 기본값과 환경변수만 사용합니다.
func LoadOperation(path string) (*Operation, error) {
	v := viper.New()
	setOperationDefaults(v)

	v.SetEnvPrefix("ANANSI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("운용 설정 파일 읽기 실패: %w", err)
		}
	}

	var op Operation
	if err := v.Unmarshal(&op); err != nil {
		return nil, fmt.Errorf("운용 설정 변환 실패: %w", err)
	}

	if err := op.resolve(); err != nil {
		return nil, err
	}
	return &op, nil
}

func setOperationDefaults(v *viper.Viper) {
	v.SetDefault("id", "")
	v.SetDefault("mode", string(domain.BackTesting))

	v.SetDefault("market.exchange", "Binance")
	v.SetDefault("market.quote_symbol", "BTC")
	v.SetDefault("market.base_symbol", "USDT")

	v.SetDefault("classifier.name", "CrossSMA")
	v.SetDefault("classifier.time_frame", "6h")
	v.SetDefault("classifier.price_metric", "ohlc4")
	v.SetDefault("classifier.smaller_sample", 3)
	v.SetDefault("classifier.larger_sample", 80)

	v.SetDefault("stop_loss.name", "StopTrailing3T")
	v.SetDefault("stop_loss.enabled", false)
	v.SetDefault("stop_loss.time_frame", "1m")
	v.SetDefault("stop_loss.price_metric", "ohlc4")
	setTriggerDefault(v, "stop_loss.first_trigger", 10, 5, 3)
	setTriggerDefault(v, "stop_loss.second_trigger", 3, 60, 20)
	setTriggerDefault(v, "stop_loss.third_trigger", 1, 120, 40)
	setTriggerDefault(v, "stop_loss.update_target_if", 0.7, 10, 3)

	v.SetDefault("allowed_special_signals", []string{})
	v.SetDefault("hold_if_stopped", true)

	v.SetDefault("initial_balances.quote", 0.0)
	v.SetDefault("initial_balances.base", 1000.0)

	v.SetDefault("backtest.start", "")
	v.SetDefault("backtest.end", "")
}

func setTriggerDefault(v *viper.Viper, key string, rate float64, measurements, positives int) {
	v.SetDefault(key+".rate", rate)
	v.SetDefault(key+".measurements", measurements)
	v.SetDefault(key+".positives", positives)
}

// resolve는 문자열 설정을 도메인 타입으로 변환하고 검증합니다
func (o *Operation) resolve() error {
	if _, ok := domain.ParseMode(string(o.Mode)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMode, o.Mode)
	}

	allowed, err := domain.ParseSpecialSignals(o.AllowedSpecialSignals)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownSpecialSignal, err)
	}
	o.Allowed = allowed

	if o.Market.QuoteSymbol == "" || o.Market.BaseSymbol == "" {
		return fmt.Errorf("%w: 거래 쌍 심볼이 비어 있습니다", ErrInvalidOperation)
	}
	if _, err := domain.ParseTimeInterval(string(o.Classifier.TimeFrame)); err != nil {
		return fmt.Errorf("%w: classifier.time_frame: %v", ErrInvalidOperation, err)
	}
	if _, err := domain.ParseTimeInterval(string(o.StopLoss.TimeFrame)); err != nil {
		return fmt.Errorf("%w: stop_loss.time_frame: %v", ErrInvalidOperation, err)
	}
	if err := o.Seed().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	if o.Mode == domain.BackTesting && o.Backtest.Start == "" {
		return fmt.Errorf("%w: 백테스트 모드에는 backtest.start가 필요합니다", ErrInvalidOperation)
	}
	return nil
}
