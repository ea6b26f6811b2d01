package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"neowatch/internal/models"
)

const (
	asteroidSheet = "Asteroids"
	infoSheet     = "Info"
)

// CreateAsteroidWorkbook writes the table and its stats to an XLSX file.
func CreateAsteroidWorkbook(filepath string, table *models.Table, stats models.StatsSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", asteroidSheet); err != nil {
		return err
	}

	headers := table.Schema.Names()
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(asteroidSheet, cell, header)
	}

	for rowIdx, row := range table.Rows {
		values := row.Values()
		values[len(values)-1] = time.Time(row.SearchingDate).Format(models.DateLayout)

		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(asteroidSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(asteroidSheet, colName, colName, 22)
	}

	// highlight hazardous objects
	if len(table.Rows) > 0 {
		hazardRule := []excelize.ConditionalFormatOptions{
			{
				Type:     "cell",
				Criteria: "==",
				Value:    "TRUE",
				Format:   getConditionalFormatStyle(f, "#FFCCCC"),
			},
		}
		rng := fmt.Sprintf("C2:C%d", len(table.Rows)+1)
		if err := f.SetConditionalFormat(asteroidSheet, rng, hazardRule); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}
	info := [][]interface{}{
		{"Report Generated", time.Now().UTC().Format("2006-01-02 15:04:05")},
		{"Total Records", len(table.Rows)},
		{"Potentially Hazardous", stats.PotentiallyHazardousCount},
		{"Largest Object", stats.NameWithMaxEstimatedDiam},
		{"Min Collision Hours", stats.MinCollisionHours},
	}
	for i, line := range info {
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", i+1), line[0])
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", i+1), line[1])
	}

	return f.SaveAs(filepath)
}

func getConditionalFormatStyle(f *excelize.File, color string) *int {
	style, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil
	}
	return &style
}
