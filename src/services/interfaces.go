// backend/src/services/interfaces.go
package services

import (
	"context"

	"github.com/username/lnboard/backend/src/models"
)

// PositionFetcher is the outbound port to the trading API. Satisfied by
// lnmarkets.Client; handlers and tests substitute fakes.
type PositionFetcher interface {
	FetchClosedPositions(ctx context.Context) ([]models.RawPosition, error)
}

// PositionNormalizer turns a raw batch into derived positions.
// Satisfied by processors.PositionProcessor.
type PositionNormalizer interface {
	Process(raw []models.RawPosition) (positions []models.Position, rawCount int, err error)
}
