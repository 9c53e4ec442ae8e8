package lnmarkets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/models"
)

const (
	futuresPath = "/v2/futures"

	// The query string is built by hand instead of url.Values so the bytes
	// that get signed are exactly the bytes that go on the wire
	// (url.Values.Encode sorts keys alphabetically).
	closedPositionsQuery = "type=closed&limit=1000"
)

// Client talks to the LN Markets REST API.
// It performs one blocking call per invocation: no retries, no caching.
type Client struct {
	http       *resty.Client
	apiKey     string
	secret     []byte
	passphrase string
	now        func() time.Time
}

// NewClient creates an authenticated LN Markets client. The timeout is a
// client-side safety net against hung connections, not a functional limit.
func NewClient(baseURL, apiKey, apiSecret, passphrase string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:       httpClient,
		apiKey:     apiKey,
		secret:     []byte(apiSecret),
		passphrase: passphrase,
		now:        time.Now,
	}
}

// FetchClosedPositions retrieves the trader's closed futures positions
// (up to the API's 1000-row limit). An empty response list is a valid
// "no data available" state, not an error.
func (c *Client) FetchClosedPositions(ctx context.Context) ([]models.RawPosition, error) {
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	signature := Sign(timestamp, http.MethodGet, futuresPath, closedPositionsQuery, c.secret)

	// The query is appended verbatim; resty's query helpers re-encode the
	// parameters in sorted order, which would desync the wire bytes from
	// the signed bytes.
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"LNM-ACCESS-KEY":        c.apiKey,
			"LNM-ACCESS-SIGNATURE":  signature,
			"LNM-ACCESS-PASSPHRASE": c.passphrase,
			"LNM-ACCESS-TIMESTAMP":  timestamp,
		}).
		Get(futuresPath + "?" + closedPositionsQuery)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var positions []models.RawPosition
	if err := json.Unmarshal(resp.Body(), &positions); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: fmt.Sprintf("malformed response body: %v", err)}
	}

	logger.FromContext(ctx).Debug("Fetched closed positions from LN Markets", "count", len(positions))
	if positions == nil {
		positions = []models.RawPosition{}
	}
	return positions, nil
}
