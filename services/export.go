package services

import (
	"bytes"
	"fmt"

	"advocate_diary/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const hearingDiarySheet = "Hearing Diary"

var hearingDiaryHeaders = []string{
	"Case Number", "Case Title", "Client", "Court", "Hearing Date",
	"Action Taken", "Court Order", "Next Hearing Date", "Action To Be Taken",
}

// ExportHearingDiary builds an xlsx workbook of the user's hearing updates.
// When caseID is set only that case is exported and it must belong to the user.
func ExportHearingDiary(db *gorm.DB, userID, caseID string) (*bytes.Buffer, error) {
	if caseID != "" {
		if _, err := GetCaseByID(db, userID, caseID); err != nil {
			return nil, err
		}
	}

	summaries, err := GetAllHearingUpdates(db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hearing updates: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hearingDiarySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHearingDiaryHeader(f); err != nil {
		return nil, err
	}

	row := 2
	for _, s := range summaries {
		if caseID != "" && s.CaseID != caseID {
			continue
		}
		values := []interface{}{
			s.CaseNumber,
			s.CaseTitle,
			derefString(s.ClientName),
			derefString(s.CourtName),
			models.FormatDate(s.HearingDate),
			derefString(s.ActionTaken),
			derefString(s.CourtOrder),
			derefString(models.FormatDatePtr(s.NextHearingDate)),
			derefString(s.ActionToBeTaken),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", row, err)
		}
		if err := f.SetSheetRow(hearingDiarySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// writeHearingDiaryHeader writes the bold header row and sets the column widths
func writeHearingDiaryHeader(f *excelize.File) error {
	if err := f.SetSheetRow(hearingDiarySheet, "A1", &hearingDiaryHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(hearingDiaryHeaders))
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(hearingDiarySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "D", 24},
		{"E", "E", 14},
		{"F", "G", 40},
		{"H", "H", 18},
		{"I", "I", 40},
	}
	for _, w := range widths {
		if err := f.SetColWidth(hearingDiarySheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}
