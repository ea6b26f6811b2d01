package models

import (
	"fmt"
	"strings"
)

// Comparison is an allowed operator for the asteroid range query.
type Comparison string

const (
	GreaterOrEqual Comparison = ">="
	LessOrEqual    Comparison = "<="
	Equal          Comparison = "="
	Greater        Comparison = ">"
	Less           Comparison = "<"
)

var comparisonAliases = map[string]Comparison{
	">=": GreaterOrEqual, "gte": GreaterOrEqual,
	"<=": LessOrEqual, "lte": LessOrEqual,
	"=": Equal, "eq": Equal,
	">": Greater, "gt": Greater,
	"<": Less, "lt": Less,
}

func ParseComparison(s string) (Comparison, error) {
	if c, ok := comparisonAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidComparison, s)
}

func (c Comparison) Valid() bool {
	switch c {
	case GreaterOrEqual, LessOrEqual, Equal, Greater, Less:
		return true
	}
	return false
}
