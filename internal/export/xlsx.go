// Package export writes a user's round history as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/stats"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	RoundsSheet  = "Rounds"
	SummarySheet = "Summary"
)

// Header is the first row of the rounds sheet.
func Header() []any {
	header := make([]any, 0, model.HoleCount+3)
	header = append(header, "Date", "Course")
	for hole := 1; hole <= model.HoleCount; hole++ {
		header = append(header, fmt.Sprintf("H%d", hole))
	}
	return append(header, "Total")
}

// WriteRounds writes one row per round in the given order, plus a summary
// sheet. Unset holes are left blank.
func WriteRounds(w io.Writer, rounds []*model.Round, summary stats.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", RoundsSheet)
	if err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	err = setRow(f, RoundsSheet, 1, Header())
	if err != nil {
		return err
	}

	for i, round := range rounds {
		row := make([]any, 0, model.HoleCount+3)
		row = append(row, round.Date, round.CourseName())
		for _, score := range round.Scores {
			if score == nil {
				row = append(row, nil)
				continue
			}
			row = append(row, *score)
		}
		row = append(row, round.TotalScore)

		err = setRow(f, RoundsSheet, i+2, row)
		if err != nil {
			return err
		}
	}

	_, err = f.NewSheet(SummarySheet)
	if err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	var best any = "-"
	if summary.Best != nil {
		best = *summary.Best
	}
	lines := [][]any{
		{"Rounds", summary.RoundCount},
		{"Average", summary.Average},
		{"Best", best},
		{"This month", summary.MonthlyCount},
		{"Handicap estimate", summary.Handicap},
	}
	for i, line := range lines {
		err = setRow(f, SummarySheet, i+1, line)
		if err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	if err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	err = f.SetSheetRow(sheet, cell, &values)
	if err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
