// internal/exchange/binance/client.go
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/assist-by/anansi/internal/domain"
)

const (
	defaultBaseURL        = "https://api.binance.com"
	defaultRequestsPerMin = 1100
	maxKlinesPerRequest   = 1000

	// 현물 시장 기본 규칙
	minimalTradableUnit = 0.000001
	feeRateDecimal      = 0.001
)

// Client는 바이낸스 현물 시세 API 클라이언트를 구현합니다
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient는 HTTP 클라이언트를 교체합니다
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestsPerMinute는 분당 요청 한도를 설정합니다
func WithRequestsPerMinute(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.limiter = newLimiter(n)
		}
	}
}

// NewClient는 새로운 바이낸스 API 클라이언트를 생성합니다
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    newLimiter(defaultRequestsPerMin),
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func newLimiter(perMinute int) *rate.Limiter {
	burst := perMinute / 60
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst)
}

// doRequest는 요청 한도를 지켜 HTTP GET 요청을 실행하고 결과를 반환합니다
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("요청 한도 대기 실패: %w", err)
	}

	// URL 생성
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	// 요청 생성
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}

	// 요청 실행
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	// 응답 읽기
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 읽기 실패: %w", err)
	}

	// 상태 코드 확인
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"msg"`
		}
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, fmt.Errorf("HTTP 에러(%d): %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("API 에러(코드: %d): %s", apiErr.Code, apiErr.Message)
	}

	return body, nil
}

// GetKlines는 until 시점 이전에 열린 캔들 데이터를 조회합니다
func (c *Client) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, until time.Time, limit int) (domain.CandleList, error) {
	if limit < 1 || limit > maxKlinesPerRequest {
		return nil, fmt.Errorf("limit은 1 이상 %d 이하이어야 합니다: %d", maxKlinesPerRequest, limit)
	}

	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("interval", string(interval))
	params.Add("limit", strconv.Itoa(limit))
	if !until.IsZero() {
		params.Add("endTime", strconv.FormatInt(until.UnixMilli(), 10))
	}

	resp, err := c.doRequest(ctx, "/api/v3/klines", params)
	if err != nil {
		return nil, err
	}

	var rawCandles [][]interface{}
	if err := json.Unmarshal(resp, &rawCandles); err != nil {
		return nil, fmt.Errorf("캔들 데이터 파싱 실패: %w", err)
	}

	candles := make(domain.CandleList, 0, len(rawCandles))
	for i, raw := range rawCandles {
		candle, err := parseKline(raw)
		if err != nil {
			return nil, fmt.Errorf("캔들 %d번째 파싱 실패: %w", i, err)
		}
		candle.Symbol = symbol
		candle.Interval = interval
		candles = append(candles, candle)
	}

	return candles, nil
}

// MarketRules는 거래 쌍의 최소 거래 단위와 수수료율을 반환합니다
// 현물 시장 공통 값을 사용합니다.
func (c *Client) MarketRules(_ context.Context, symbol string) (domain.MarketRules, error) {
	if symbol == "" {
		return domain.MarketRules{}, fmt.Errorf("심볼이 비어 있습니다")
	}
	return domain.MarketRules{
		MinimalTradableUnit: minimalTradableUnit,
		FeeRateDecimal:      feeRateDecimal,
	}, nil
}

// parseKline은 [openTime, open, high, low, close, volume, closeTime, ...] 배열을 캔들로 변환합니다
func parseKline(raw []interface{}) (domain.Candle, error) {
	if len(raw) < 7 {
		return domain.Candle{}, fmt.Errorf("필드 수 부족: %d", len(raw))
	}

	openTime, ok := raw[0].(float64)
	if !ok {
		return domain.Candle{}, fmt.Errorf("시작 시간 형식 오류: %v", raw[0])
	}
	closeTime, ok := raw[6].(float64)
	if !ok {
		return domain.Candle{}, fmt.Errorf("종료 시간 형식 오류: %v", raw[6])
	}

	// 가격 문자열 변환
	var values [5]float64
	for i := range values {
		s, ok := raw[i+1].(string)
		if !ok {
			return domain.Candle{}, fmt.Errorf("가격 형식 오류: %v", raw[i+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("가격 변환 실패: %w", err)
		}
		values[i] = v
	}

	return domain.Candle{
		OpenTime:  time.UnixMilli(int64(openTime)).UTC(),
		CloseTime: time.UnixMilli(int64(closeTime)).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}
