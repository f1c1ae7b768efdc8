package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wardline/medshift/backend/internal/contracts"
	"github.com/wardline/medshift/backend/pkg/config"
	"github.com/wardline/medshift/backend/pkg/httputil"
	"github.com/wardline/medshift/backend/pkg/logger"
)

// Client looks up credential status on the public license board. The board
// has no API; status comes from scraping its lookup pages.
// SSOT: license board lookups go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new license board client.
func NewClient(cfg config.RegistryConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// LapsedLicenses checks each profile's license number against the board and
// returns the personnel IDs whose credentials are no longer current.
// Profiles without a license number are skipped. A single failed lookup
// fails the whole check; the caller treats the result as best-effort.
func (c *Client) LapsedLicenses(ctx context.Context, profiles map[string]contracts.PersonnelProfile) (map[string]bool, error) {
	lapsed := make(map[string]bool)

	for id, profile := range profiles {
		if profile.LicenseNumber == "" {
			continue
		}

		current, err := c.lookupLicense(ctx, profile.LicenseNumber)
		if err != nil {
			return nil, fmt.Errorf("lookup license %s: %w", profile.LicenseNumber, err)
		}
		if !current {
			lapsed[id] = true
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"checked": len(profiles),
		"lapsed":  len(lapsed),
	}).Debug("Checked license board")

	return lapsed, nil
}

// lookupLicense fetches the board's lookup page for one license number and
// reports whether the license is current.
func (c *Client) lookupLicense(ctx context.Context, licenseNumber string) (bool, error) {
	params := url.Values{}
	params.Set("license", licenseNumber)
	fullURL := fmt.Sprintf("%s/lookup?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return false, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response body failed: %w", err)
	}

	return parseStatusHTML(string(body), licenseNumber)
}

// parseStatusHTML extracts the status cell for the license number from the
// board's result table. Board HTML: table.license-results with one row per
// match, license number in the first column and status in the last.
func parseStatusHTML(html string, licenseNumber string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, fmt.Errorf("parse HTML: %w", err)
	}

	status := ""
	doc.Find("table.license-results tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		if strings.TrimSpace(cells.Eq(0).Text()) != licenseNumber {
			return true
		}
		status = strings.TrimSpace(cells.Last().Text())
		return false
	})

	if status == "" {
		return false, fmt.Errorf("license %s not found on board", licenseNumber)
	}

	return isCurrentStatus(status), nil
}

// isCurrentStatus maps the board's status text to current/lapsed. Unknown
// statuses count as current; only an explicit lapse flags a credential.
func isCurrentStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "EXPIRED", "LAPSED", "REVOKED", "SUSPENDED":
		return false
	default:
		return true
	}
}
