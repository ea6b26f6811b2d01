package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"neowatch/internal/logger"
	"neowatch/internal/models"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// AsteroidStore is the read side of the asteroid repository.
type AsteroidStore interface {
	FindNames(ctx context.Context, searchingDate time.Time, missDistanceKm float64, cmp models.Comparison) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// ReportSource exposes the most recent pipeline run.
type ReportSource interface {
	LastReport() *models.RunReport
}

type QueryDefaults struct {
	MissDistanceKm float64
	Condition      models.Comparison
}

type AsteroidHandler struct {
	store    AsteroidStore
	reports  ReportSource
	defaults QueryDefaults
	now      func() time.Time
}

func NewAsteroidHandler(store AsteroidStore, reports ReportSource, defaults QueryDefaults) *AsteroidHandler {
	if defaults.Condition == "" {
		defaults.Condition = models.GreaterOrEqual
	}
	return &AsteroidHandler{
		store:    store,
		reports:  reports,
		defaults: defaults,
		now:      time.Now,
	}
}

func (h *AsteroidHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.HealthCheck)
	api.GET("/asteroids", h.GetAsteroidNames)
	api.GET("/runs/last", h.GetLastRun)
}

// HealthCheck reports whether the asteroid table is reachable.
func (h *AsteroidHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   version,
		Services:  map[string]string{"database": "connected"},
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}

	rows, err := h.store.Count(c.Request.Context())
	if err != nil {
		logger.GetLogger("handlers").Warnw("Health check: database unavailable", "error", err)
		resp.Status = "degraded"
		resp.Services["database"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	resp.Rows = rows

	c.JSON(http.StatusOK, resp)
}

// GetAsteroidNames runs the range query. searching_date defaults to today,
// miss_distance_km and condition to the configured query.
func (h *AsteroidHandler) GetAsteroidNames(c *gin.Context) {
	date := models.Today(h.now())
	if s := c.Query("searching_date"); s != "" {
		parsed, err := time.Parse(models.DateLayout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid searching_date",
				Message: "expected YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	distance := h.defaults.MissDistanceKm
	if s := c.Query("miss_distance_km"); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid miss_distance_km",
				Message: err.Error(),
			})
			return
		}
		distance = parsed
	}

	cmp := h.defaults.Condition
	if s := c.Query("condition"); s != "" {
		parsed, err := models.ParseComparison(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid condition",
				Message: err.Error(),
			})
			return
		}
		cmp = parsed
	}

	names, err := h.store.FindNames(c.Request.Context(), date, distance, cmp)
	if err != nil {
		logger.GetLogger("handlers").Errorw("Asteroid query failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "failed to query asteroids",
			Message: err.Error(),
		})
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, AsteroidsResponse{
		SearchingDate:  date.Format(models.DateLayout),
		MissDistanceKm: distance,
		Condition:      cmp,
		Count:          len(names),
		Names:          names,
	})
}

func (h *AsteroidHandler) GetLastRun(c *gin.Context) {
	report := h.reports.LastReport()
	if report == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}
