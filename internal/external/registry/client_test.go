package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/medshift/backend/internal/contracts"
	"github.com/wardline/medshift/backend/pkg/config"
	"github.com/wardline/medshift/backend/pkg/httputil"
	"github.com/wardline/medshift/backend/pkg/logger"
)

const boardPage = `
<html><body>
<table class="license-results">
	<tr><th>License</th><th>Name</th><th>Status</th></tr>
	<tr><td>RN-1001</td><td>Whitfield, D.</td><td>ACTIVE</td></tr>
	<tr><td>RN-2002</td><td>Okafor, J.</td><td>EXPIRED</td></tr>
	<tr><td>RN-3003</td><td>Marsh, T.</td><td>Suspended</td></tr>
</table>
</body></html>`

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &config.Config{LogLevel: "error"}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(config.RegistryConfig{BaseURL: baseURL, Enabled: true}, httpClient, log)
}

func boardServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("license"))
		fmt.Fprint(w, boardPage)
	}))
}

func TestLapsedLicenses(t *testing.T) {
	server := boardServer(t)
	defer server.Close()

	c := testClient(t, server.URL)

	profiles := map[string]contracts.PersonnelProfile{
		"p-1": {ID: "p-1", LicenseNumber: "RN-1001"},
		"p-2": {ID: "p-2", LicenseNumber: "RN-2002"},
		"p-3": {ID: "p-3", LicenseNumber: "RN-3003"},
		"p-4": {ID: "p-4"}, // no license number: skipped
	}

	lapsed, err := c.LapsedLicenses(context.Background(), profiles)
	require.NoError(t, err)

	assert.False(t, lapsed["p-1"])
	assert.True(t, lapsed["p-2"])
	assert.True(t, lapsed["p-3"])
	assert.False(t, lapsed["p-4"])
}

func TestLapsedLicenses_UnknownLicense(t *testing.T) {
	server := boardServer(t)
	defer server.Close()

	c := testClient(t, server.URL)

	profiles := map[string]contracts.PersonnelProfile{
		"p-9": {ID: "p-9", LicenseNumber: "RN-9999"},
	}

	_, err := c.LapsedLicenses(context.Background(), profiles)
	assert.Error(t, err)
}

func TestParseStatusHTML(t *testing.T) {
	tests := []struct {
		name    string
		license string
		current bool
		wantErr bool
	}{
		{"active license", "RN-1001", true, false},
		{"expired license", "RN-2002", false, false},
		{"suspended lowercase-ish", "RN-3003", false, false},
		{"missing license", "RN-0000", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, err := parseStatusHTML(boardPage, tt.license)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.current, current)
		})
	}
}
