package backtest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/assist-by/anansi/internal/domain"
)

// Summarize는 거래 기록과 최종 포지션으로 운용 결과를 계산합니다
// 자산은 base 자산 단위로 평가하며, 보유 quote 자산은 lastPrice로 환산합니다.
func Summarize(initial domain.Balances, trades []domain.TradeLogEntry, final domain.Position, lastPrice float64, at time.Time) *Report {
	result := &Report{
		TotalTrades:    len(trades),
		EndTime:        at,
		MonthlyReturns: make(map[string]float64),
	}

	startPrice := lastPrice
	if len(trades) > 0 {
		startPrice = trades[0].Price
		result.StartTime = time.Unix(trades[0].Timestamp, 0).UTC()
	}
	result.InitialEquity = equity(initial, startPrice)
	result.FinalEquity = equity(final.Balances, lastPrice)

	// 거래 재생으로 자산 곡선 계산
	balances := initial
	var entry *domain.TradeLogEntry
	for i := range trades {
		trade := trades[i]
		result.TotalFees += trade.Fee
		balances = replay(balances, trade)
		result.EquityCurve = append(result.EquityCurve, EquityPoint{
			Timestamp: time.Unix(trade.Timestamp, 0).UTC(),
			Equity:    equity(balances, trade.Price),
		})

		switch trade.Signal {
		case domain.Buy:
			if entry == nil {
				entry = &trades[i]
			}
		case domain.Sell, domain.StopFromLong:
			if entry != nil {
				trip := newRoundTrip(*entry, trade)
				result.Trips = append(result.Trips, trip)
				updateMonthlyStats(result, trip)
				entry = nil
			}
		}
	}
	result.EquityCurve = append(result.EquityCurve, EquityPoint{Timestamp: at, Equity: result.FinalEquity})

	for _, trip := range result.Trips {
		if trip.ProfitPct > 0 {
			result.WinningTrades++
		} else if trip.ProfitPct < 0 {
			result.LosingTrades++
		}
	}
	result.RoundTrips = len(result.Trips)

	// 승률 계산
	if result.RoundTrips > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.RoundTrips) * 100
	}

	if result.InitialEquity > 0 {
		result.CumulativeReturn = (result.FinalEquity - result.InitialEquity) / result.InitialEquity * 100
		if !result.StartTime.IsZero() {
			result.AnnualizedReturn = CalculateAnnualizedReturn(result.InitialEquity, result.FinalEquity, result.StartTime, at) * 100
		}
	}

	result.MaxDrawdown, _, _ = CalculateDrawdownStats(result.EquityCurve)
	return result
}

func equity(b domain.Balances, price float64) float64 {
	return b.Base + b.Quote*price
}

// replay는 거래 기록 한 건을 잔고에 반영합니다
func replay(b domain.Balances, t domain.TradeLogEntry) domain.Balances {
	switch t.Signal {
	case domain.Buy, domain.StopFromShort:
		b.Quote += t.QuoteAmount - t.Fee/t.Price
		b.Base -= t.QuoteAmount * t.Price
	case domain.Sell, domain.StopFromLong:
		b.Quote -= t.QuoteAmount
		b.Base += t.QuoteAmount*t.Price - t.Fee
	}
	return b
}

func newRoundTrip(entry, exit domain.TradeLogEntry) RoundTrip {
	return RoundTrip{
		EntryTime:  time.Unix(entry.Timestamp, 0).UTC(),
		ExitTime:   time.Unix(exit.Timestamp, 0).UTC(),
		EntryPrice: entry.Price,
		ExitPrice:  exit.Price,
		ProfitPct:  (exit.Price - entry.Price) / entry.Price * 100,
		ExitSignal: exit.Signal,
	}
}

// updateMonthlyStats는 청산 월 기준 수익률 통계를 업데이트합니다
func updateMonthlyStats(result *Report, trip RoundTrip) {
	// 월 형식: "2023-01"
	monthKey := trip.ExitTime.Format("2006-01")
	result.MonthlyReturns[monthKey] += trip.ProfitPct
}

// CalculateDrawdownStats는 자산 이력에서 낙폭 통계를 계산합니다
func CalculateDrawdownStats(equityHistory []EquityPoint) (maxDrawdown float64, avgDrawdown float64, drawdownDuration time.Duration) {
	if len(equityHistory) == 0 {
		return 0, 0, 0
	}

	highWaterMark := equityHistory[0].Equity
	totalDrawdown := 0.0
	drawdownCount := 0

	drawdownStart := time.Time{}
	inDrawdown := false

	for _, point := range equityHistory {
		// 신규 최고점 갱신
		if point.Equity > highWaterMark {
			highWaterMark = point.Equity

			// 낙폭 종료
			if inDrawdown {
				inDrawdown = false
				if d := point.Timestamp.Sub(drawdownStart); d > drawdownDuration {
					drawdownDuration = d
				}
			}
		}

		if highWaterMark <= 0 {
			continue
		}

		currentDrawdown := (highWaterMark - point.Equity) / highWaterMark * 100
		if currentDrawdown > 0 {
			// 낙폭 시작
			if !inDrawdown {
				inDrawdown = true
				drawdownStart = point.Timestamp
			}
			totalDrawdown += currentDrawdown
			drawdownCount++
		}
		if currentDrawdown > maxDrawdown {
			maxDrawdown = currentDrawdown
		}
	}

	// 평균 낙폭 계산
	if drawdownCount > 0 {
		avgDrawdown = totalDrawdown / float64(drawdownCount)
	}

	return maxDrawdown, avgDrawdown, drawdownDuration
}

// CalculateAnnualizedReturn은 연율화 수익률을 계산합니다
func CalculateAnnualizedReturn(startEquity, endEquity float64, startTime, endTime time.Time) float64 {
	// 총 수익률
	totalReturn := (endEquity - startEquity) / startEquity

	// 거래 기간 (연 단위)
	yearDiff := float64(endTime.Sub(startTime)) / float64(365*24*time.Hour)

	// 연율화 수익률 계산 공식: (1 + totalReturn)^(1/yearDiff) - 1
	if yearDiff > 0 && 1+totalReturn > 0 {
		return math.Pow(1+totalReturn, 1/yearDiff) - 1
	}

	return totalReturn
}

// Write는 결과를 사람이 읽을 수 있는 표 형태로 출력합니다
func (r *Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value string
	}{
		{"총 체결", fmt.Sprintf("%d", r.TotalTrades)},
		{"완료 거래", fmt.Sprintf("%d (승 %d / 패 %d)", r.RoundTrips, r.WinningTrades, r.LosingTrades)},
		{"승률", fmt.Sprintf("%.2f%%", r.WinRate)},
		{"시작 자산", fmt.Sprintf("%.8f", r.InitialEquity)},
		{"최종 자산", fmt.Sprintf("%.8f", r.FinalEquity)},
		{"누적 수익률", fmt.Sprintf("%.2f%%", r.CumulativeReturn)},
		{"연율화 수익률", fmt.Sprintf("%.2f%%", r.AnnualizedReturn)},
		{"최대 낙폭", fmt.Sprintf("%.2f%%", r.MaxDrawdown)},
		{"총 수수료", fmt.Sprintf("%.8f", r.TotalFees)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.name, row.value)
	}

	months := make([]string, 0, len(r.MonthlyReturns))
	for m := range r.MonthlyReturns {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		fmt.Fprintf(tw, "월별 %s\t%.2f%%\n", m, r.MonthlyReturns[m])
	}
	return tw.Flush()
}
