package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wardline/medshift/backend/internal/contracts"
	"github.com/wardline/medshift/backend/pkg/config"
	"github.com/wardline/medshift/backend/pkg/httputil"
	"github.com/wardline/medshift/backend/pkg/logger"
)

const (
	// maxIDsPerRequest bounds the ids query parameter per directory call.
	maxIDsPerRequest = 50

	defaultRequestsPerS = 5
)

// Client handles communication with the personnel directory service.
// SSOT: directory profile lookups go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient creates a new directory client.
func NewClient(cfg config.DirectoryConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.RequestsPerS
	if rps <= 0 {
		rps = defaultRequestsPerS
	}

	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
	}
}

// profileResponse is the directory's batch lookup payload.
type profileResponse struct {
	Profiles []contracts.PersonnelProfile `json:"profiles"`
}

// GetProfiles fetches profiles for the given personnel IDs, batching large
// requests. IDs unknown to the directory are absent from the result map.
func (c *Client) GetProfiles(ctx context.Context, personnelIDs []string) (map[string]contracts.PersonnelProfile, error) {
	profiles := make(map[string]contracts.PersonnelProfile, len(personnelIDs))

	for start := 0; start < len(personnelIDs); start += maxIDsPerRequest {
		end := start + maxIDsPerRequest
		if end > len(personnelIDs) {
			end = len(personnelIDs)
		}

		batch, err := c.fetchBatch(ctx, personnelIDs[start:end])
		if err != nil {
			return nil, err
		}
		for id, p := range batch {
			profiles[id] = p
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(personnelIDs),
		"resolved":  len(profiles),
	}).Debug("Fetched personnel profiles")

	return profiles, nil
}

// fetchBatch performs one rate-limited batch lookup.
func (c *Client) fetchBatch(ctx context.Context, ids []string) (map[string]contracts.PersonnelProfile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	fullURL := fmt.Sprintf("%s/v1/personnel?%s", c.baseURL, params.Encode())

	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var payload profileResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, headers, &payload); err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}

	batch := make(map[string]contracts.PersonnelProfile, len(payload.Profiles))
	for _, p := range payload.Profiles {
		if p.ID == "" {
			continue
		}
		batch[p.ID] = p
	}

	return batch, nil
}
