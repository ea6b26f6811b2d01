package utils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"neowatch/internal/models"
)

func TestCreateAsteroidWorkbook(t *testing.T) {
	date := datatypes.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	table := &models.Table{
		Schema: models.AsteroidSchema,
		Rows: []models.Asteroid{
			{ID: 1, Name: "A", IsPotentiallyHazardousAsteroid: true, EstimatedDiameterMaxKm: 0.2, RelativeVelocityKmSec: 10, MissDistanceKm: 3600000, SearchingDate: date},
			{ID: 2, Name: "B", EstimatedDiameterMaxKm: 0.5, RelativeVelocityKmSec: 5, MissDistanceKm: 9000000, SearchingDate: date},
		},
	}
	stats := models.StatsSummary{PotentiallyHazardousCount: 1, NameWithMaxEstimatedDiam: "B", MinCollisionHours: 100}

	path := filepath.Join(t.TempDir(), "neo.xlsx")
	if err := CreateAsteroidWorkbook(path, table, stats); err != nil {
		t.Fatalf("CreateAsteroidWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(asteroidSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][7] != "searching_date" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[2][1] != "B" || rows[2][7] != "2024-01-01" {
		t.Errorf("unexpected data row %v", rows[2])
	}

	largest, _ := f.GetCellValue(infoSheet, "B4")
	if largest != "B" {
		t.Errorf("expected largest object B, got %q", largest)
	}
}
