package services

import (
	"context"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/lnboard/backend/src/lnmarkets"
	"github.com/username/lnboard/backend/src/models"
	"github.com/username/lnboard/backend/src/processors"
)

type fakeFetcher struct {
	raw []models.RawPosition
	err error
}

func (f *fakeFetcher) FetchClosedPositions(ctx context.Context) ([]models.RawPosition, error) {
	return f.raw, f.err
}

func ptrI64(v int64) *int64     { return &v }
func ptrF64(v float64) *float64 { return &v }

func fakeRaw(closedMs int64, pl float64) models.RawPosition {
	return models.RawPosition{
		MarketFilledTs: ptrI64(closedMs - 1000),
		ClosedTs:       ptrI64(closedMs),
		OpeningFee:     ptrF64(1),
		ClosingFee:     ptrF64(1),
		SumCarryFees:   ptrF64(0),
		PL:             ptrF64(pl),
		EntryMargin:    ptrF64(100),
		Price:          ptrF64(97000),
	}
}

func newPositionService(t *testing.T, fetcher PositionFetcher) *PositionService {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return NewPositionService(fetcher, processors.NewPositionProcessor(loc), cache.New(cache.NoExpiration, 0))
}

func TestPositionService_RefreshReplacesBatch(t *testing.T) {
	fetcher := &fakeFetcher{raw: []models.RawPosition{fakeRaw(1700000000000, 50)}}
	svc := newPositionService(t, fetcher)

	_, found := svc.Current()
	assert.False(t, found, "no batch before the first refresh")

	batch, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Positions, 1)

	// A new fetch replaces the whole batch, it never merges.
	fetcher.raw = []models.RawPosition{
		fakeRaw(1700010000000, 70),
		fakeRaw(1700020000000, -30),
	}
	batch, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Positions, 2)

	current, found := svc.Current()
	require.True(t, found)
	assert.Len(t, current.Positions, 2)
	assert.Equal(t, 2, current.RawCount)
}

func TestPositionService_ErrorKeepsPreviousBatch(t *testing.T) {
	fetcher := &fakeFetcher{raw: []models.RawPosition{fakeRaw(1700000000000, 50)}}
	svc := newPositionService(t, fetcher)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	fetcher.raw = nil
	fetcher.err = &lnmarkets.APIError{StatusCode: 500, Body: "boom"}
	_, err = svc.Refresh(context.Background())

	var apiErr *lnmarkets.APIError
	require.ErrorAs(t, err, &apiErr)

	current, found := svc.Current()
	require.True(t, found, "stale batch must remain available after a failed refresh")
	assert.Len(t, current.Positions, 1)
}

func TestPositionService_EmptyFetchIsValid(t *testing.T) {
	svc := newPositionService(t, &fakeFetcher{raw: []models.RawPosition{}})

	batch, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batch.Positions)
	assert.Zero(t, batch.RawCount)
}
