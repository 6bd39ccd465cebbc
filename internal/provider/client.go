// Package provider is the client for the device cloud's REST API.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"browser-matrix/internal/config"
	"browser-matrix/internal/matcher"
)

const browsersPath = "/automate/browsers.json"

// stableVersion matches release-channel versions: an integer, optionally
// dot-integer. Beta/dev channel strings ("84.0 beta") are dropped.
var stableVersion = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

type Client struct {
	endpoint  string
	username  string
	accessKey string
	timeout   time.Duration
	http      *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		endpoint:  cfg.Provider.Endpoint,
		username:  cfg.Provider.Username,
		accessKey: cfg.Provider.AccessKey,
		timeout:   cfg.FetchTimeout(),
		http:      &http.Client{},
	}
}

// ListBrowsers fetches the full catalog of currently available
// browser/device combinations, keeping stable versions only. A single
// failed fetch aborts the run; there is no retry.
func (c *Client) ListBrowsers(ctx context.Context) ([]matcher.AvailableBrowser, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+browsersPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.SetBasicAuth(c.username, c.accessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: provider returned %s", resp.Status)
	}

	var all []matcher.AvailableBrowser
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	stable := make([]matcher.AvailableBrowser, 0, len(all))
	for _, b := range all {
		if b.BrowserVersion == "" || stableVersion.MatchString(b.BrowserVersion) {
			stable = append(stable, b)
		}
	}
	log.Debug().Int("fetched", len(all)).Int("stable", len(stable)).Msg("catalog fetched")
	return stable, nil
}
