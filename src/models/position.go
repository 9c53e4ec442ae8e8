package models

import "time"

// RawPosition is a closed futures position exactly as returned by the
// LN Markets /v2/futures endpoint. Fields are pointers so a missing key
// in the JSON payload is distinguishable from a zero value.
type RawPosition struct {
	MarketFilledTs *int64   `json:"market_filled_ts"`
	ClosedTs       *int64   `json:"closed_ts"`
	OpeningFee     *float64 `json:"opening_fee"`
	ClosingFee     *float64 `json:"closing_fee"`
	SumCarryFees   *float64 `json:"sum_carry_fees"`
	PL             *float64 `json:"pl"`
	EntryMargin    *float64 `json:"entry_margin"`
	Price          *float64 `json:"price"`
}

// Position is a normalized closed position with derived financial metrics.
// Times carry the configured display zone; amounts are in satoshis.
type Position struct {
	EntryTime   time.Time `json:"entrada"`
	ExitTime    time.Time `json:"saida"`
	EntryMargin float64   `json:"margem"`
	EntryPrice  float64   `json:"precoEntrada"`
	Fee         float64   `json:"taxa"`
	Profit      float64   `json:"lucro"`
	ROI         float64   `json:"roi"`
}

// MonthlyBucket aggregates profit over a calendar month of exit time.
// PeriodStart (not Label) defines the chronological order of buckets.
type MonthlyBucket struct {
	PeriodStart time.Time `json:"periodo"`
	Label       string    `json:"mes"`
	TotalProfit float64   `json:"lucro"`
}

// DailyBucket aggregates profit over a calendar day of exit time.
type DailyBucket struct {
	Date        time.Time `json:"data"`
	Label       string    `json:"dia"`
	TotalProfit float64   `json:"lucro"`
}

// Summary holds the headline metrics displayed above the charts.
type Summary struct {
	TotalInvested float64 `json:"totalInvestido"`
	TotalProfit   float64 `json:"lucroTotal"`
	ROITotal      float64 `json:"roiTotal"`
	OrderCount    int     `json:"totalOrdens"`
	TodayProfit   float64 `json:"lucroDia"`
}

// CumulativePoint is one step of the running profit series.
type CumulativePoint struct {
	ExitTime     time.Time `json:"saida"`
	RunningTotal float64   `json:"lucroAcumulado"`
}
