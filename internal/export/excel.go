// Package export writes ranked shortlists to spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-scorer/internal/recommend"
	"github.com/spigell/resume-scorer/internal/shortlist"
)

// SheetName is the worksheet that holds the ranked candidates.
const SheetName = "Ranked Candidates"

var headers = []string{"Rank", "Application", "Candidate", "Job", "CV Score", "Assessment Score", "Overall Score", "Recommendation"}

var bandColors = map[string]string{
	recommend.StrongHire: "C6EFCE",
	recommend.Hire:       "FFEB9C",
	recommend.Maybe:      "FFC7CE",
	recommend.NoHire:     "FF9999",
}

// Shortlist writes entries to an .xlsx workbook at path and returns the path
// actually written, with the extension added when missing.
func Shortlist(entries []shortlist.Entry, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("export path is required")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRankedSheet(f, entries); err != nil {
		return "", fmt.Errorf("write ranked candidates sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %q: %w", path, err)
	}
	return path, nil
}

func writeRankedSheet(f *excelize.File, entries []shortlist.Entry) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	bandStyles := make(map[string]int, len(bandColors))
	for band, color := range bandColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return err
		}
		bandStyles[band] = style
	}

	if err := f.SetColWidth(SheetName, "A", "D", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "E", "H", 18); err != nil {
		return err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, e := range entries {
		row := i + 2
		values := []any{
			e.Rank,
			e.ApplicationID,
			e.CandidateID,
			e.JobID,
			shortlist.Round(e.CVScore, 2),
			shortlist.Round(e.AssessmentScore, 2),
			shortlist.Round(e.OverallScore, 2),
			e.Recommendation,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return err
		}
		if style, ok := bandStyles[e.Recommendation]; ok {
			end, _ := excelize.CoordinatesToCellName(len(headers), row)
			if err := f.SetCellStyle(SheetName, start, end, style); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
