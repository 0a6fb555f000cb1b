package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/anansi/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "./data/anansi.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://api.binance.com", cfg.Binance.BaseURL)
	assert.Equal(t, 1100, cfg.Binance.RequestsPerMin)
	assert.Equal(t, 500, cfg.Binance.RecordsPerFetch)
	assert.Equal(t, time.Minute, cfg.App.TickInterval)
	assert.Empty(t, cfg.Discord.TradeWebhook)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := writeFile(t, ".env", "DATABASE_PATH=/tmp/anansi-test.db\nLOG_FORMAT=json\n")
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/anansi-test.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "zero request weight", mutate: func(c *Config) { c.Binance.RequestsPerMin = 0 }, wantErr: true},
		{name: "too many records", mutate: func(c *Config) { c.Binance.RecordsPerFetch = 1001 }, wantErr: true},
		{name: "tick too short", mutate: func(c *Config) { c.App.TickInterval = time.Millisecond }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)

			tt.mutate(cfg)
			err = ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

const operationYAML = `
id: 2f0b5a56-0f7e-4b5b-8c1a-6f8c0a1d2e3f
mode: BackTesting
market:
  exchange: Binance
  quote_symbol: ETH
  base_symbol: USDT
classifier:
  smaller_sample: 5
allowed_special_signals:
  - NakedSell
  - DoubleBuy
hold_if_stopped: false
initial_balances:
  base: 250
backtest:
  start: "2024-01-01"
  end: "2024-03-01"
`

func TestLoadOperation(t *testing.T) {
	op, err := LoadOperation(writeFile(t, "operation.yaml", operationYAML))
	require.NoError(t, err)

	assert.Equal(t, "2f0b5a56-0f7e-4b5b-8c1a-6f8c0a1d2e3f", op.ID)
	assert.Equal(t, domain.BackTesting, op.Mode)
	assert.Equal(t, "ETHUSDT", op.MarketInfo().Ticker())
	assert.False(t, op.HoldIfStopped)
	assert.Equal(t, domain.Balances{Base: 250}, op.Seed())

	// 지정하지 않은 값은 기본값 유지
	assert.Equal(t, "CrossSMA", op.Classifier.Name)
	assert.Equal(t, domain.Interval6h, op.Classifier.TimeFrame)
	assert.Equal(t, 5, op.Classifier.SmallerSample)
	assert.Equal(t, 80, op.Classifier.LargerSample)
	assert.Equal(t, "StopTrailing3T", op.StopLoss.Name)
	assert.Equal(t, TriggerConfig{Rate: 3, Measurements: 60, Positives: 20}, op.StopLoss.SecondTrigger)
	assert.Equal(t, TriggerConfig{Rate: 0.7, Measurements: 10, Positives: 3}, op.StopLoss.UpdateTargetIf)

	assert.True(t, op.Allowed.Contains(domain.NakedSell))
	assert.True(t, op.Allowed.Contains(domain.DoubleBuy))
	assert.False(t, op.Allowed.Contains(domain.DoubleSell))

	start, end, err := op.BacktestWindow(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestLoadOperation_EnvOverride(t *testing.T) {
	t.Setenv("ANANSI_MODE", "Advisor")
	t.Setenv("ANANSI_MARKET_QUOTE_SYMBOL", "SOL")

	op, err := LoadOperation("")
	require.NoError(t, err)
	assert.Equal(t, domain.Advisor, op.Mode)
	assert.Equal(t, "SOLUSDT", op.MarketInfo().Ticker())
}

func TestLoadOperation_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown special signal",
			yaml:    "mode: Advisor\nallowed_special_signals: [NakedSell, Buy]\n",
			wantErr: ErrUnknownSpecialSignal,
		},
		{
			name:    "unknown mode",
			yaml:    "mode: Paper\n",
			wantErr: ErrInvalidMode,
		},
		{
			name:    "backtest without start",
			yaml:    "mode: BackTesting\n",
			wantErr: ErrInvalidOperation,
		},
		{
			name:    "unsupported time frame",
			yaml:    "mode: Advisor\nclassifier:\n  time_frame: 7h\n",
			wantErr: ErrInvalidOperation,
		},
		{
			name:    "negative balance",
			yaml:    "mode: Advisor\ninitial_balances:\n  base: -1\n",
			wantErr: ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOperation(writeFile(t, "operation.yaml", tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOperation_BacktestWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	op := &Operation{Backtest: BacktestConfig{Start: "2024-05-01"}}
	start, end, err := op.BacktestWindow(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	op.Backtest.End = "2024-04-01"
	_, _, err = op.BacktestWindow(now)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	op.Backtest.Start = "yesterday"
	_, _, err = op.BacktestWindow(now)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}
