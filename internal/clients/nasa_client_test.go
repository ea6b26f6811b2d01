package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neowatch/internal/models"
)

const sampleFeed = `{
  "element_count": 2,
  "near_earth_objects": {
    "2024-01-01": [
      {
        "id": "3542519",
        "name": "(2010 PK9)",
        "is_potentially_hazardous_asteroid": true,
        "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.1, "estimated_diameter_max": 0.2}},
        "close_approach_data": [
          {"close_approach_date": "2024-01-01",
           "relative_velocity": {"kilometers_per_second": "10"},
           "miss_distance": {"kilometers": "3600000"}}
        ]
      }
    ],
    "2023-12-31": [
      {
        "id": 2000433,
        "name": "433 Eros",
        "is_potentially_hazardous_asteroid": false,
        "estimated_diameter": {"kilometers": {"estimated_diameter_min": "22.1", "estimated_diameter_max": "49.4"}},
        "close_approach_data": []
      }
    ]
  }
}`

func TestFetchNEOFeed(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"start_date": q.Get("start_date"),
			"end_date":   q.Get("end_date"),
			"api_key":    q.Get("api_key"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewNASAClient(NASAConfig{APIKey: "DEMO_KEY", NEOURL: srv.URL, Timeout: time.Second})

	start := time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feed, err := c.FetchNEOFeed(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FetchNEOFeed failed: %v", err)
	}

	if gotQuery["start_date"] != "2023-12-30" || gotQuery["end_date"] != "2024-01-01" || gotQuery["api_key"] != "DEMO_KEY" {
		t.Errorf("unexpected query parameters: %v", gotQuery)
	}
	if feed.ElementCount != 2 {
		t.Errorf("expected element_count 2, got %d", feed.ElementCount)
	}
	if len(feed.NearEarthObjects) != 2 {
		t.Fatalf("expected 2 date buckets, got %d", len(feed.NearEarthObjects))
	}
	if len(feed.Raw) == 0 {
		t.Error("raw payload should be kept")
	}

	obj := feed.NearEarthObjects["2024-01-01"][0]
	id, err := obj.ID.Int64()
	if err != nil || id != 3542519 {
		t.Errorf("expected id 3542519, got %d (%v)", id, err)
	}
	v, err := obj.CloseApproachData[0].RelativeVelocity.KilometersPerSecond.Float64()
	if err != nil || v != 10 {
		t.Errorf("expected velocity 10, got %v (%v)", v, err)
	}

	eros := feed.NearEarthObjects["2023-12-31"][0]
	if id, _ := eros.ID.Int64(); id != 2000433 {
		t.Errorf("bare numeric id should decode, got %d", id)
	}
	if max, _ := eros.EstimatedDiameter.Kilometers.EstimatedDiameterMax.Float64(); max != 49.4 {
		t.Errorf("quoted diameter should decode, got %v", max)
	}
}

func TestFetchNEOFeedFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"OVER_RATE_LIMIT"}`},
		{"broken json", http.StatusOK, `{"near_earth_objects": {`},
		{"missing key", http.StatusOK, `{"element_count": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewNASAClient(NASAConfig{NEOURL: srv.URL})
			feed, err := c.FetchNEOFeed(context.Background(), time.Now(), time.Now())
			if !errors.Is(err, models.ErrFetch) {
				t.Fatalf("expected ErrFetch, got %v", err)
			}
			if feed != nil {
				t.Error("feed should be nil on failure")
			}
		})
	}
}

func TestFetchNEOFeedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewNASAClient(NASAConfig{NEOURL: url, Timeout: time.Second})
	if _, err := c.FetchNEOFeed(context.Background(), time.Now(), time.Now()); !errors.Is(err, models.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}
