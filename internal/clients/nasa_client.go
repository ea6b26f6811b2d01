package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"neowatch/internal/models"
)

type NASAClient interface {
	FetchNEOFeed(ctx context.Context, start, end time.Time) (*models.Feed, error)
}

type nasaClient struct {
	apiKey string
	neoURL string
	client *http.Client
}

type NASAConfig struct {
	APIKey  string
	NEOURL  string
	Timeout time.Duration
}

func NewNASAClient(config NASAConfig) NASAClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &nasaClient{
		apiKey: config.APIKey,
		neoURL: config.NEOURL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:       10,
				IdleConnTimeout:    30 * time.Second,
				DisableCompression: false,
			},
		},
	}
}

func (c *nasaClient) FetchNEOFeed(ctx context.Context, start, end time.Time) (*models.Feed, error) {
	params := url.Values{}
	params.Add("start_date", start.Format(models.DateLayout))
	params.Add("end_date", end.Format(models.DateLayout))
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}

	reqURL := c.neoURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", models.ErrFetch, err)
	}

	req.Header.Set("User-Agent", "NEO-Watch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", models.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: NEO API returned status %d", models.ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", models.ErrFetch, err)
	}

	return ParseFeed(body)
}

// ParseFeed decodes a full feed response body.
func ParseFeed(body []byte) (*models.Feed, error) {
	var envelope struct {
		ElementCount     int             `json:"element_count"`
		NearEarthObjects json.RawMessage `json:"near_earth_objects"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode JSON: %w", models.ErrFetch, err)
	}
	if len(envelope.NearEarthObjects) == 0 || string(envelope.NearEarthObjects) == "null" {
		return nil, fmt.Errorf("%w: response has no near_earth_objects", models.ErrFetch)
	}

	feed, err := ParseNearEarthObjects(envelope.NearEarthObjects)
	if err != nil {
		return nil, err
	}
	if envelope.ElementCount > 0 {
		feed.ElementCount = envelope.ElementCount
	}
	return feed, nil
}

// ParseNearEarthObjects decodes the date → objects mapping on its own, as
// stored in the raw dump and the feed cache.
func ParseNearEarthObjects(raw []byte) (*models.Feed, error) {
	var objects map[string][]models.RawObject
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, fmt.Errorf("%w: decode near_earth_objects: %w", models.ErrFetch, err)
	}

	count := 0
	for _, bucket := range objects {
		count += len(bucket)
	}

	return &models.Feed{
		ElementCount:     count,
		NearEarthObjects: objects,
		Raw:              json.RawMessage(raw),
	}, nil
}
