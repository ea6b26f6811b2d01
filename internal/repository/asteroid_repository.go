package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neowatch/internal/models"

	"gorm.io/gorm"
)

type AsteroidRepository interface {
	EnsureTable(ctx context.Context, schema models.Schema) error
	InsertRows(ctx context.Context, t *models.Table) error
	FindNames(ctx context.Context, searchingDate time.Time, missDistanceKm float64, cmp models.Comparison) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type asteroidRepository struct {
	db    *gorm.DB
	table string
}

func NewAsteroidRepository(db *gorm.DB, table string) AsteroidRepository {
	if table == "" {
		table = models.Asteroid{}.TableName()
	}
	return &asteroidRepository{db: db, table: table}
}

func (r *asteroidRepository) EnsureTable(ctx context.Context, schema models.Schema) error {
	ddl, err := CreateTableSQL(r.table, schema)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

// InsertRows submits one INSERT per row and commits once. Rows whose primary
// key already exists are skipped by the database.
func (r *asteroidRepository) InsertRows(ctx context.Context, t *models.Table) error {
	stmt := InsertSQL(r.table, t.Schema)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range t.Rows {
			if err := tx.Exec(stmt, row.Values()...).Error; err != nil {
				return fmt.Errorf("insert asteroid %d: %w", row.ID, err)
			}
		}
		return nil
	})
}

// FindNames returns names of rows where both searching_date and
// miss_distance_km satisfy cmp against the given values. Order is whatever
// the database returns.
func (r *asteroidRepository) FindNames(ctx context.Context, searchingDate time.Time, missDistanceKm float64, cmp models.Comparison) ([]string, error) {
	query, err := FindNamesSQL(r.table, cmp)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).
		Raw(query, models.Today(searchingDate), missDistanceKm).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("query asteroid names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan asteroid name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *asteroidRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(r.table).
		Count(&count).
		Error
	return count, err
}

// CreateTableSQL builds the CREATE TABLE IF NOT EXISTS statement for schema.
// Columns flagged PrimaryKey get PRIMARY KEY NOT NULL; when none is flagged
// the first column takes that role. Every other column is NOT NULL.
func CreateTableSQL(table string, schema models.Schema) (string, error) {
	if len(schema) == 0 {
		return "", fmt.Errorf("table %s: schema has no columns", table)
	}

	hasPK := false
	for _, col := range schema {
		if col.PrimaryKey {
			hasPK = true
			break
		}
	}

	defs := make([]string, 0, len(schema))
	for i, col := range schema {
		sqlType, err := col.Kind.SQLType()
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col.Name, err)
		}

		def := col.Name + " " + sqlType
		if col.PrimaryKey || (!hasPK && i == 0) {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def+" NOT NULL")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", ")), nil
}

func InsertSQL(table string, schema models.Schema) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(schema)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		table, strings.Join(schema.Names(), ", "), placeholders)
}

// FindNamesSQL renders the name query with cmp applied to both predicates.
// cmp must be one of the known operators; values stay bound parameters.
func FindNamesSQL(table string, cmp models.Comparison) (string, error) {
	if !cmp.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidComparison, string(cmp))
	}
	return fmt.Sprintf("SELECT name FROM %s WHERE searching_date %s ? AND miss_distance_km %s ?",
		table, cmp, cmp), nil
}
