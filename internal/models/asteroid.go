package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Asteroid struct {
	ID                             int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name                           string         `gorm:"not null" json:"name"`
	IsPotentiallyHazardousAsteroid bool           `gorm:"not null" json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameterMinKm         float64        `gorm:"column:estimated_diameter_min_km;not null" json:"estimated_diameter_min_km"`
	EstimatedDiameterMaxKm         float64        `gorm:"column:estimated_diameter_max_km;not null" json:"estimated_diameter_max_km"`
	RelativeVelocityKmSec          float64        `gorm:"column:relative_velocity_km_sec;not null" json:"relative_velocity_km_sec"`
	MissDistanceKm                 float64        `gorm:"column:miss_distance_km;not null" json:"miss_distance_km"`
	SearchingDate                  datatypes.Date `gorm:"not null" json:"searching_date"`
}

func (Asteroid) TableName() string {
	return "public.asteroids"
}

// Values returns the row in AsteroidSchema column order.
func (a Asteroid) Values() []interface{} {
	return []interface{}{
		a.ID,
		a.Name,
		a.IsPotentiallyHazardousAsteroid,
		a.EstimatedDiameterMinKm,
		a.EstimatedDiameterMaxKm,
		a.RelativeVelocityKmSec,
		a.MissDistanceKm,
		time.Time(a.SearchingDate),
	}
}

// CollisionHours is the time to cover the miss distance at the relative velocity.
func (a Asteroid) CollisionHours() float64 {
	return a.MissDistanceKm / (a.RelativeVelocityKmSec * 3600)
}

type StatsSummary struct {
	PotentiallyHazardousCount int     `json:"potentially_hazardous_count"`
	NameWithMaxEstimatedDiam  string  `json:"name_with_max_estimated_diam"`
	MinCollisionHours         float64 `json:"min_collision_hours"`
}

// RunReport describes one pipeline run.
type RunReport struct {
	RunID        uuid.UUID    `json:"run_id"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	FromCache    bool         `json:"from_cache"`
	Rows         int          `json:"rows"`
	Stats        StatsSummary `json:"stats"`
	Names        []string     `json:"names"`
	PersistErr   error        `json:"-"`
	PersistError string       `json:"persist_error,omitempty"`
}
