package service

import (
	"errors"
	"testing"
	"time"

	"neowatch/internal/models"
)

func TestComputeStatsScenario(t *testing.T) {
	table, err := ToTable(mustFeed(t, scenarioObjects), time.Now())
	if err != nil {
		t.Fatalf("ToTable failed: %v", err)
	}

	stats, err := ComputeStats(table.Rows)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}

	if stats.PotentiallyHazardousCount != 0 {
		t.Errorf("expected 0 hazardous, got %d", stats.PotentiallyHazardousCount)
	}
	if stats.MinCollisionHours != 100.0 {
		t.Errorf("expected 100 hours, got %v", stats.MinCollisionHours)
	}
	if stats.NameWithMaxEstimatedDiam != "A" {
		t.Errorf("expected A, got %q", stats.NameWithMaxEstimatedDiam)
	}
}

func TestComputeStats(t *testing.T) {
	rows := []models.Asteroid{
		{ID: 1, Name: "first-big", EstimatedDiameterMaxKm: 0.9, RelativeVelocityKmSec: 10, MissDistanceKm: 3600000},
		{ID: 2, Name: "hazard", IsPotentiallyHazardousAsteroid: true, EstimatedDiameterMaxKm: 0.1, RelativeVelocityKmSec: 5, MissDistanceKm: 90000},
		{ID: 3, Name: "second-big", IsPotentiallyHazardousAsteroid: true, EstimatedDiameterMaxKm: 0.9, RelativeVelocityKmSec: 20, MissDistanceKm: 7200000},
	}

	stats, err := ComputeStats(rows)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}

	if stats.PotentiallyHazardousCount != 2 {
		t.Errorf("expected 2 hazardous, got %d", stats.PotentiallyHazardousCount)
	}
	if stats.NameWithMaxEstimatedDiam != "first-big" {
		t.Errorf("ties should keep the first row, got %q", stats.NameWithMaxEstimatedDiam)
	}
	want := 90000.0 / (5 * 3600)
	if stats.MinCollisionHours != want {
		t.Errorf("expected %v hours, got %v", want, stats.MinCollisionHours)
	}
	if stats.MinCollisionHours < 0 {
		t.Error("collision hours must not be negative")
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	if _, err := ComputeStats(nil); !errors.Is(err, models.ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestComputeStatsZeroVelocity(t *testing.T) {
	rows := []models.Asteroid{
		{ID: 1, Name: "ok", RelativeVelocityKmSec: 1, MissDistanceKm: 10},
		{ID: 2, Name: "stalled", RelativeVelocityKmSec: 0, MissDistanceKm: 10},
	}
	if _, err := ComputeStats(rows); !errors.Is(err, models.ErrZeroVelocity) {
		t.Fatalf("expected ErrZeroVelocity, got %v", err)
	}
}
