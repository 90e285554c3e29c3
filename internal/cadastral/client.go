// Package cadastral looks up pre-surveyed parcel shapes by their cadastral
// identifier, as an alternative to drawing a polygon by hand. The registry is
// an external collaborator; its failures are opaque and never retried here.
package cadastral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
)

// ErrNotFound is returned when the registry has no parcel for an identifier.
var ErrNotFound = errors.New("cadastral identifier not found")

// ParcelRecord is a pre-built parcel returned by the registry. It feeds the
// same finalize pipeline as a hand-drawn polygon.
type ParcelRecord struct {
	Identifier string            `json:"identifier"`
	Ring       []geometry.Vertex `json:"ring"`
	AreaHa     float64           `json:"area_ha"`
	Center     geometry.Vertex   `json:"center"`
	Locality   string            `json:"locality"`
	County     string            `json:"county"`
}

// Client resolves cadastral identifiers to parcel records.
type Client interface {
	Lookup(ctx context.Context, identifier string) (*ParcelRecord, error)
}

// HTTPClient is the registry client used in production.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient creates a registry client for baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) Lookup(ctx context.Context, identifier string) (*ParcelRecord, error) {
	endpoint := fmt.Sprintf("%s/parcels/%s", c.baseURL, url.PathEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cadastral registry unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, identifier)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cadastral registry returned status %d", resp.StatusCode)
	}

	var record ParcelRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	c.logger.Debug("Cadastral lookup resolved",
		zap.String("identifier", identifier),
		zap.String("locality", record.Locality))

	return &record, nil
}
