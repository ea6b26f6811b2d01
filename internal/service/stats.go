package service

import (
	"fmt"

	"neowatch/internal/models"
)

// ComputeStats summarises the rows. An empty table and a zero relative
// velocity are both errors.
func ComputeStats(rows []models.Asteroid) (models.StatsSummary, error) {
	var stats models.StatsSummary
	if len(rows) == 0 {
		return stats, models.ErrEmptyTable
	}

	maxDiam := rows[0].EstimatedDiameterMaxKm
	stats.NameWithMaxEstimatedDiam = rows[0].Name

	for i, row := range rows {
		if row.IsPotentiallyHazardousAsteroid {
			stats.PotentiallyHazardousCount++
		}

		// strict comparison keeps the first row on ties
		if row.EstimatedDiameterMaxKm > maxDiam {
			maxDiam = row.EstimatedDiameterMaxKm
			stats.NameWithMaxEstimatedDiam = row.Name
		}

		if row.RelativeVelocityKmSec == 0 {
			return models.StatsSummary{}, fmt.Errorf("%w: asteroid %d (%s)", models.ErrZeroVelocity, row.ID, row.Name)
		}
		hours := row.CollisionHours()
		if i == 0 || hours < stats.MinCollisionHours {
			stats.MinCollisionHours = hours
		}
	}

	return stats, nil
}
