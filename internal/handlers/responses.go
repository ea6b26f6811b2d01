package handlers

import "neowatch/internal/models"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
	Rows      int64             `json:"rows"`
	Timestamp string            `json:"timestamp"`
}

// AsteroidsResponse is the body of GET /asteroids.
type AsteroidsResponse struct {
	SearchingDate  string            `json:"searching_date"`
	MissDistanceKm float64           `json:"miss_distance_km"`
	Condition      models.Comparison `json:"condition"`
	Count          int               `json:"count"`
	Names          []string          `json:"names"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
