package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config는 프로세스 환경변수에서 읽는 실행 설정입니다
type Config struct {
	// 저장소 설정
	Database struct {
		Path string `envconfig:"DATABASE_PATH" default:"./data/anansi.db"`
	}

	// 로그 설정
	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	// 바이낸스 API 설정 (캔들 조회만 사용하므로 키는 필요 없음)
	Binance struct {
		BaseURL         string `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
		RequestsPerMin  int    `envconfig:"BINANCE_REQUESTS_PER_MINUTE" default:"1100"`
		RecordsPerFetch int    `envconfig:"BINANCE_RECORDS_PER_REQUEST" default:"500"`
	}

	// 디스코드 웹훅 설정 (비어 있으면 알림을 보내지 않음)
	Discord struct {
		TradeWebhook string `envconfig:"DISCORD_TRADE_WEBHOOK"`
		ErrorWebhook string `envconfig:"DISCORD_ERROR_WEBHOOK"`
		InfoWebhook  string `envconfig:"DISCORD_INFO_WEBHOOK"`
	}

	// 애플리케이션 설정
	App struct {
		TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"1m"`
		MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	}
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if cfg.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH가 비어 있습니다")
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT은 text 또는 json이어야 합니다: %s", cfg.Log.Format)
	}

	if cfg.Binance.RequestsPerMin < 1 {
		return fmt.Errorf("BINANCE_REQUESTS_PER_MINUTE은 1 이상이어야 합니다")
	}

	if cfg.Binance.RecordsPerFetch < 1 || cfg.Binance.RecordsPerFetch > 1000 {
		return fmt.Errorf("BINANCE_RECORDS_PER_REQUEST는 1 이상 1000 이하이어야 합니다")
	}

	if cfg.App.TickInterval < time.Second {
		return fmt.Errorf("TICK_INTERVAL은 1초 이상이어야 합니다")
	}

	if cfg.App.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES는 0 이상이어야 합니다")
	}

	return nil
}

// LoadConfig는 환경변수에서 설정을 로드합니다.
// envFile이 주어지면 먼저 읽어 환경변수로 등록하며, 파일이 없으면 무시합니다.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
		}
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}
