package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/assist-by/anansi/internal/config"
)

var (
	operationFile string
	envFile       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "anansi-trader",
		Short:        "캔들 기반 자동 매매 봇",
		Long:         `분류기와 추적 손절로 포지션 방향을 정하고 운용 모드에 맞게 실행합니다`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&operationFile, "operation", "", "운용 설정 YAML 파일 (기본값과 ANANSI_ 환경변수만 사용하려면 비워 둠)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "환경변수 파일")

	rootCmd.AddCommand(newRunCmd(), newReportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger는 설정에 맞는 로거를 생성합니다
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.WithError(err).Warn("로그 레벨이 유효하지 않아 info를 사용합니다")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadSettings는 환경 설정과 운용 설정을 함께 로드합니다
func loadSettings() (*config.Config, *config.Operation, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	logger := newLogger(cfg)

	op, err := config.LoadOperation(operationFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("운용 설정 로드 실패: %w", err)
	}
	return cfg, op, logger, nil
}
