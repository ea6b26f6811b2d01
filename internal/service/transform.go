package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"neowatch/internal/models"

	"gorm.io/datatypes"
)

// ToTable flattens the feed into one row per object. Date buckets are read in
// ascending order and every row is stamped with today, not its approach date.
func ToTable(feed *models.Feed, today time.Time) (*models.Table, error) {
	if feed == nil {
		return nil, fmt.Errorf("%w: no feed to transform", models.ErrFetch)
	}

	dates := make([]string, 0, len(feed.NearEarthObjects))
	for date := range feed.NearEarthObjects {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	stamp := datatypes.Date(models.Today(today))
	table := &models.Table{Schema: models.AsteroidSchema}

	for _, date := range dates {
		for i, obj := range feed.NearEarthObjects[date] {
			row, err := toAsteroid(obj)
			if err != nil {
				return nil, fmt.Errorf("object %d of %s: %w", i, date, err)
			}
			row.SearchingDate = stamp
			table.Rows = append(table.Rows, row)
		}
	}

	return table, nil
}

func toAsteroid(obj models.RawObject) (models.Asteroid, error) {
	var a models.Asteroid

	if obj.ID == nil {
		return a, missing("id")
	}
	id, err := obj.ID.Int64()
	if err != nil {
		return a, err
	}
	a.ID = id

	if obj.Name == nil {
		return a, missing("name")
	}
	a.Name = *obj.Name

	if obj.IsPotentiallyHazardousAsteroid == nil {
		return a, missing("is_potentially_hazardous_asteroid")
	}
	a.IsPotentiallyHazardousAsteroid = *obj.IsPotentiallyHazardousAsteroid

	if obj.EstimatedDiameter == nil || obj.EstimatedDiameter.Kilometers == nil {
		return a, missing("estimated_diameter.kilometers")
	}
	km := obj.EstimatedDiameter.Kilometers
	if a.EstimatedDiameterMinKm, err = toFloat(km.EstimatedDiameterMin, "estimated_diameter.kilometers.estimated_diameter_min"); err != nil {
		return a, err
	}
	if a.EstimatedDiameterMaxKm, err = toFloat(km.EstimatedDiameterMax, "estimated_diameter.kilometers.estimated_diameter_max"); err != nil {
		return a, err
	}

	if len(obj.CloseApproachData) == 0 {
		return a, missing("close_approach_data[0]")
	}
	approach := obj.CloseApproachData[0]
	if approach.RelativeVelocity == nil {
		return a, missing("close_approach_data[0].relative_velocity")
	}
	if a.RelativeVelocityKmSec, err = toFloat(approach.RelativeVelocity.KilometersPerSecond, "close_approach_data[0].relative_velocity.kilometers_per_second"); err != nil {
		return a, err
	}
	if approach.MissDistance == nil {
		return a, missing("close_approach_data[0].miss_distance")
	}
	if a.MissDistanceKm, err = toFloat(approach.MissDistance.Kilometers, "close_approach_data[0].miss_distance.kilometers"); err != nil {
		return a, err
	}

	return a, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", models.ErrMissingField, field)
}

func toFloat(n *models.Number, field string) (float64, error) {
	if n == nil {
		return 0, missing(field)
	}
	v, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

// WriteCSV overwrites path with a header row and one line per table row.
func WriteCSV(path string, t *models.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(t.Schema.Names()); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Name,
			strconv.FormatBool(row.IsPotentiallyHazardousAsteroid),
			formatFloat(row.EstimatedDiameterMinKm),
			formatFloat(row.EstimatedDiameterMaxKm),
			formatFloat(row.RelativeVelocityKmSec),
			formatFloat(row.MissDistanceKm),
			time.Time(row.SearchingDate).Format(models.DateLayout),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ReadCSV parses a file written by WriteCSV. The header must match the
// asteroid schema exactly.
func ReadCSV(path string) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv %s: no header", path)
	}

	want := models.AsteroidSchema.Names()
	header := records[0]
	if len(header) != len(want) {
		return nil, fmt.Errorf("read csv %s: expected %d columns, got %d", path, len(want), len(header))
	}
	for i := range want {
		if header[i] != want[i] {
			return nil, fmt.Errorf("read csv %s: column %d is %q, expected %q", path, i, header[i], want[i])
		}
	}

	table := &models.Table{Schema: models.AsteroidSchema}
	for line, rec := range records[1:] {
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("read csv %s line %d: %w", path, line+2, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func parseRecord(rec []string) (models.Asteroid, error) {
	var (
		a   models.Asteroid
		err error
	)
	if a.ID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
		return a, err
	}
	a.Name = rec[1]
	if a.IsPotentiallyHazardousAsteroid, err = strconv.ParseBool(rec[2]); err != nil {
		return a, err
	}
	floats := []*float64{&a.EstimatedDiameterMinKm, &a.EstimatedDiameterMaxKm, &a.RelativeVelocityKmSec, &a.MissDistanceKm}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(rec[3+i], 64); err != nil {
			return a, err
		}
	}
	date, err := time.Parse(models.DateLayout, rec[7])
	if err != nil {
		return a, err
	}
	a.SearchingDate = datatypes.Date(date)
	return a, nil
}
