// backend/src/processors/position_processor.go
package processors

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/models"
)

// requiredFields are the API columns the pipeline cannot work without.
var requiredFields = []string{
	"market_filled_ts", "closed_ts",
	"opening_fee", "closing_fee", "sum_carry_fees",
	"pl", "entry_margin", "price",
}

// SchemaError reports required fields that are absent from an entire batch.
// It is fatal to the fetch cycle: no partial result is produced.
type SchemaError struct {
	MissingFields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("position batch is missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// PositionProcessor validates raw closed positions and derives the financial
// metrics used everywhere downstream (fee, profit, ROI).
type PositionProcessor struct {
	location *time.Location
}

func NewPositionProcessor(location *time.Location) *PositionProcessor {
	return &PositionProcessor{location: location}
}

// Process normalizes a raw batch. It returns the kept positions sorted
// ascending by exit time, plus the count of complete records before the
// zero-profit exclusion (callers may report both figures).
//
// Zero-profit trades are intentionally excluded from the returned positions.
// This matches the dashboard's long-standing display policy: a trade whose
// realized P&L exactly cancels its fees never shows up in tables, charts or
// order counts.
func (p *PositionProcessor) Process(raw []models.RawPosition) ([]models.Position, int, error) {
	if len(raw) == 0 {
		return []models.Position{}, 0, nil
	}

	if missing := missingFields(raw); len(missing) > 0 {
		return nil, 0, &SchemaError{MissingFields: missing}
	}

	type candidate struct {
		pos   models.Position
		index int
	}
	var candidates []candidate
	rawCount := 0

	for i, r := range raw {
		// Records without both fill timestamps are incomplete and are dropped
		// before any derivation.
		if !validTimestamp(r.MarketFilledTs) || !validTimestamp(r.ClosedTs) {
			continue
		}

		entry := time.UnixMilli(*r.MarketFilledTs).In(p.location)
		exit := time.UnixMilli(*r.ClosedTs).In(p.location)
		if exit.Before(entry) {
			// A close before the fill is corrupt data; drop the record, keep the batch.
			logger.L.Warn("Dropping position with exit before entry",
				"market_filled_ts", *r.MarketFilledTs, "closed_ts", *r.ClosedTs)
			continue
		}
		rawCount++

		fee := numeric(r.OpeningFee) + numeric(r.ClosingFee) + numeric(r.SumCarryFees)
		profit := numeric(r.PL) - fee
		margin := numeric(r.EntryMargin)

		var roi float64
		if margin != 0 {
			roi = profit / margin * 100
		}

		if profit == 0 {
			continue
		}

		candidates = append(candidates, candidate{
			pos: models.Position{
				EntryTime:   entry,
				ExitTime:    exit,
				EntryMargin: margin,
				EntryPrice:  numeric(r.Price),
				Fee:         fee,
				Profit:      profit,
				ROI:         roi,
			},
			index: i,
		})
	}

	// Ascending by exit time; ties keep original input order.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].pos.ExitTime.Before(candidates[b].pos.ExitTime)
	})

	positions := make([]models.Position, len(candidates))
	for i, c := range candidates {
		positions[i] = c.pos
	}
	return positions, rawCount, nil
}

// missingFields returns the required fields that no record in the batch
// carries. A field present in at least one record counts as present, the
// same way a column either exists or not in a tabular response.
func missingFields(raw []models.RawPosition) []string {
	present := make(map[string]bool, len(requiredFields))
	for _, r := range raw {
		if r.MarketFilledTs != nil {
			present["market_filled_ts"] = true
		}
		if r.ClosedTs != nil {
			present["closed_ts"] = true
		}
		if r.OpeningFee != nil {
			present["opening_fee"] = true
		}
		if r.ClosingFee != nil {
			present["closing_fee"] = true
		}
		if r.SumCarryFees != nil {
			present["sum_carry_fees"] = true
		}
		if r.PL != nil {
			present["pl"] = true
		}
		if r.EntryMargin != nil {
			present["entry_margin"] = true
		}
		if r.Price != nil {
			present["price"] = true
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

func validTimestamp(ts *int64) bool {
	return ts != nil && *ts > 0
}

func numeric(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
