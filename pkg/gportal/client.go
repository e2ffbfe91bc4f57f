// Package gportal is a client for the G-Portal satellite-data catalogue
// service: paginated product search over the CSW API and the
// spacecraft/sensor dataset taxonomy.
package gportal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public G-Portal endpoint.
const DefaultBaseURL = "https://gportal.jaxa.jp"

// cswPath is the Catalogue Service endpoint. For API details see the
// G-Portal User's Manual, Appendix 7.
const cswPath = "/csw/csw"

// Client handles communication with the G-Portal web API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a G-Portal API client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// Search builds a deferred catalogue query. No request is made until the
// result is consumed.
func (c *Client) Search(params SearchParams) *Search {
	return &Search{client: c, params: params}
}

// getRecords executes one CSW GetRecords request with the given search
// parameters plus paging overrides.
func (c *Client) getRecords(ctx context.Context, params SearchParams, overrides url.Values) (*FeatureCollection, error) {
	query := params.ToURLValues()
	query.Set("service", "CSW")
	query.Set("version", "3.0.0")
	query.Set("request", "GetRecords")
	query.Set("outputFormat", "application/json")
	for key, values := range overrides {
		query.Set(key, values[0])
	}

	var page FeatureCollection
	if err := c.getJSON(ctx, cswPath, query, &page); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "catalogue page fetched",
		slog.Int("returned", page.Properties.NumberOfRecordsReturned),
		slog.Int("matched", page.Properties.NumberOfRecordsMatched),
	)
	return &page, nil
}

// getJSON performs a GET against the given path and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	base.Path = path
	base.RawQuery = query.Encode()
	requestURL := base.String()

	c.logger.DebugContext(ctx, "executing G-Portal request",
		slog.String("url", requestURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gportal-go/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "G-Portal request failed",
			slog.String("error", err.Error()),
			slog.String("url", requestURL),
		)
		return fmt.Errorf("G-Portal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "G-Portal returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return fmt.Errorf("G-Portal returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode G-Portal response: %w", err)
	}
	return nil
}
