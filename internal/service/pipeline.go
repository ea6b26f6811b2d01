package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/internal/utils"

	"github.com/google/uuid"
)

// StoreOpener acquires the asteroid store for one run. The returned release
// func must be called exactly once.
type StoreOpener func(ctx context.Context) (repo repository.AsteroidRepository, release func() error, err error)

type PipelineConfig struct {
	CSVPath        string
	XLSXPath       string
	MissDistanceKm float64
	Condition      models.Comparison
}

type Pipeline struct {
	neo  NEOService
	open StoreOpener
	cfg  PipelineConfig
	now  func() time.Time

	runMu sync.Mutex
	mu    sync.RWMutex
	last  *models.RunReport
}

func NewPipeline(neo NEOService, open StoreOpener, cfg PipelineConfig) *Pipeline {
	if cfg.Condition == "" {
		cfg.Condition = models.GreaterOrEqual
	}
	return &Pipeline{
		neo:  neo,
		open: open,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Run executes fetch, transform, stats, persist and query once. Errors before
// persistence abort the run. Persistence and query errors are logged and kept
// in the report's PersistErr; the store is released either way. Concurrent
// calls are serialised.
func (p *Pipeline) Run(ctx context.Context) (*models.RunReport, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	report := &models.RunReport{
		RunID:     uuid.New(),
		StartedAt: p.now().UTC(),
	}
	log := logger.GetLogger("pipeline").With("run_id", report.RunID.String())
	defer p.remember(report)

	today := models.Today(p.now())

	log.Info("Fetching recent near-Earth objects...")
	fetched, err := p.neo.FetchRecentObjects(ctx, today)
	if err != nil {
		return p.finish(report), err
	}
	report.StartDate = fetched.Start.Format(models.DateLayout)
	report.EndDate = fetched.End.Format(models.DateLayout)
	report.FromCache = fetched.FromCache

	log.Info("Flattening near_earth_objects into a table...")
	table, err := ToTable(fetched.Feed, today)
	if err != nil {
		return p.finish(report), fmt.Errorf("transform feed: %w", err)
	}
	report.Rows = table.Len()
	if p.cfg.CSVPath != "" {
		if err := WriteCSV(p.cfg.CSVPath, table); err != nil {
			return p.finish(report), fmt.Errorf("write csv %s: %w", p.cfg.CSVPath, err)
		}
	}
	for _, row := range table.Head(5) {
		log.Infow("row", "id", row.ID, "name", row.Name,
			"hazardous", row.IsPotentiallyHazardousAsteroid,
			"diameter_max_km", row.EstimatedDiameterMaxKm,
			"miss_distance_km", row.MissDistanceKm)
	}

	log.Info("Computing summary statistics...")
	stats, err := ComputeStats(table.Rows)
	if err != nil {
		return p.finish(report), fmt.Errorf("compute stats: %w", err)
	}
	report.Stats = stats
	log.Infow("Statistics ready",
		"potentially_hazardous_count", stats.PotentiallyHazardousCount,
		"name_with_max_estimated_diam", stats.NameWithMaxEstimatedDiam,
		"min_collision_hours", stats.MinCollisionHours)

	if p.cfg.XLSXPath != "" {
		if err := utils.CreateAsteroidWorkbook(p.cfg.XLSXPath, table, stats); err != nil {
			log.Warnw("XLSX export failed", "path", p.cfg.XLSXPath, "error", err)
		}
	}

	names, err := p.persist(ctx, table, today)
	if err != nil {
		log.Errorw("Database stage failed", "error", err)
		report.PersistErr = err
		report.PersistError = err.Error()
		return p.finish(report), nil
	}
	report.Names = names
	log.Infow("Matching asteroids", "condition", string(p.cfg.Condition),
		"miss_distance_km", p.cfg.MissDistanceKm, "count", len(names), "names", names)

	return p.finish(report), nil
}

func (p *Pipeline) persist(ctx context.Context, table *models.Table, today time.Time) (names []string, err error) {
	log := logger.GetLogger("pipeline")

	log.Info("Connecting to the database...")
	repo, release, err := p.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := release(); cerr != nil {
			log.Warnf("Failed to close database connection: %v", cerr)
		}
	}()

	log.Info("Ensuring asteroids table exists...")
	if err := repo.EnsureTable(ctx, table.Schema); err != nil {
		return nil, err
	}

	log.Infof("Inserting %d rows...", table.Len())
	if err := repo.InsertRows(ctx, table); err != nil {
		return nil, err
	}

	log.Info("Querying asteroid names...")
	return repo.FindNames(ctx, today, p.cfg.MissDistanceKm, p.cfg.Condition)
}

func (p *Pipeline) finish(report *models.RunReport) *models.RunReport {
	report.FinishedAt = p.now().UTC()
	return report
}

func (p *Pipeline) remember(report *models.RunReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = report
}

// LastReport returns the most recent run, or nil before the first one.
func (p *Pipeline) LastReport() *models.RunReport {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
