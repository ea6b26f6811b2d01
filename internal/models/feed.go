package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Feed is the decoded NeoWs feed response. Raw holds the near_earth_objects
// object exactly as received.
type Feed struct {
	ElementCount     int
	NearEarthObjects map[string][]RawObject
	Raw              json.RawMessage
}

type RawObject struct {
	ID                             *Number               `json:"id"`
	Name                           *string               `json:"name"`
	IsPotentiallyHazardousAsteroid *bool                 `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter              *RawEstimatedDiameter `json:"estimated_diameter"`
	CloseApproachData              []RawCloseApproach    `json:"close_approach_data"`
}

type RawEstimatedDiameter struct {
	Kilometers *RawDiameterRange `json:"kilometers"`
}

type RawDiameterRange struct {
	EstimatedDiameterMin *Number `json:"estimated_diameter_min"`
	EstimatedDiameterMax *Number `json:"estimated_diameter_max"`
}

type RawCloseApproach struct {
	CloseApproachDate string               `json:"close_approach_date"`
	RelativeVelocity  *RawRelativeVelocity `json:"relative_velocity"`
	MissDistance      *RawMissDistance     `json:"miss_distance"`
}

type RawRelativeVelocity struct {
	KilometersPerSecond *Number `json:"kilometers_per_second"`
}

type RawMissDistance struct {
	Kilometers *Number `json:"kilometers"`
}

// Number is a JSON scalar the feed sends either quoted ("10") or bare (0.1).
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(b, &unquoted); err != nil {
			return err
		}
		s = unquoted
	}
	*n = Number(s)
	return nil
}

func (n Number) Int64() (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as integer: %w", string(n), err)
	}
	return v, nil
}

func (n Number) Float64() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as float: %w", string(n), err)
	}
	return v, nil
}
