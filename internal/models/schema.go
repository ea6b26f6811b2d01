package models

import (
	"fmt"
	"time"
)

type ColumnKind int

const (
	KindInt64 ColumnKind = iota
	KindString
	KindBool
	KindFloat64
	KindDate
)

var sqlTypes = map[ColumnKind]string{
	KindInt64:   "bigint",
	KindString:  "character varying",
	KindBool:    "boolean",
	KindFloat64: "real",
	KindDate:    "date",
}

func (k ColumnKind) SQLType() (string, error) {
	t, ok := sqlTypes[k]
	if !ok {
		return "", fmt.Errorf("no sql type for column kind %d", int(k))
	}
	return t, nil
}

type Column struct {
	Name       string
	Kind       ColumnKind
	PrimaryKey bool
}

type Schema []Column

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// AsteroidSchema is the fixed column layout of the asteroids table and CSV dump.
var AsteroidSchema = Schema{
	{Name: "id", Kind: KindInt64, PrimaryKey: true},
	{Name: "name", Kind: KindString},
	{Name: "is_potentially_hazardous_asteroid", Kind: KindBool},
	{Name: "estimated_diameter_min_km", Kind: KindFloat64},
	{Name: "estimated_diameter_max_km", Kind: KindFloat64},
	{Name: "relative_velocity_km_sec", Kind: KindFloat64},
	{Name: "miss_distance_km", Kind: KindFloat64},
	{Name: "searching_date", Kind: KindDate},
}

const DateLayout = "2006-01-02"

type Table struct {
	Schema Schema
	Rows   []Asteroid
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Head returns up to n leading rows.
func (t *Table) Head(n int) []Asteroid {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Today returns the calendar date of now as midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
