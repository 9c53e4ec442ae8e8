// backend/src/services/position_service.go
package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/models"
)

const currentBatchKey = "positions:current"

// PositionBatch is the session's "current batch": the result of the most
// recent successful fetch-and-normalize cycle.
type PositionBatch struct {
	Positions []models.Position `json:"ordens"`
	RawCount  int               `json:"totalRegistros"`
	FetchedAt time.Time         `json:"atualizadoEm"`
}

// PositionService orchestrates the pipeline (fetch, normalize) and owns the
// current batch. A refresh fully replaces the previous batch; there is no
// merge of old and new data. On error the previous batch stays untouched so
// callers can decide whether to keep showing it.
type PositionService struct {
	fetcher    PositionFetcher
	normalizer PositionNormalizer
	batchCache *cache.Cache
	now        func() time.Time
}

func NewPositionService(fetcher PositionFetcher, normalizer PositionNormalizer, batchCache *cache.Cache) *PositionService {
	return &PositionService{
		fetcher:    fetcher,
		normalizer: normalizer,
		batchCache: batchCache,
		now:        time.Now,
	}
}

// Refresh fetches the closed positions, normalizes them and replaces the
// current batch. Typed errors from the fetcher and normalizer propagate
// unchanged to the caller.
func (s *PositionService) Refresh(ctx context.Context) (*PositionBatch, error) {
	raw, err := s.fetcher.FetchClosedPositions(ctx)
	if err != nil {
		return nil, err
	}

	positions, rawCount, err := s.normalizer.Process(raw)
	if err != nil {
		return nil, err
	}

	batch := &PositionBatch{
		Positions: positions,
		RawCount:  rawCount,
		FetchedAt: s.now(),
	}
	s.batchCache.Set(currentBatchKey, batch, cache.NoExpiration)

	logger.FromContext(ctx).Info("Position batch refreshed",
		"ordens", len(positions), "registros", rawCount)
	return batch, nil
}

// Current returns the last successful batch without touching the network.
func (s *PositionService) Current() (*PositionBatch, bool) {
	v, found := s.batchCache.Get(currentBatchKey)
	if !found {
		return nil, false
	}
	batch, ok := v.(*PositionBatch)
	return batch, ok
}
