package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/stemsi/resultbook/internal/model"
)

// SheetName is the worksheet every export writes to.
const SheetName = "Report"

// ExportColumns is the header row of an exported workbook.
var ExportColumns = []interface{}{
	"Rank",
	"Admission No",
	"Student Name",
	"Total Score",
	"Max Marks",
	"Percentage",
	"Grade",
}

// ExportFileName builds "<class>_<exam>_Report_<YYYYMMDD_HHMMSS>.xlsx".
func ExportFileName(className, examName string, at time.Time) string {
	return fmt.Sprintf("%s_%s_Report_%s.xlsx",
		sanitize(className), sanitize(examName), at.Format("20060102_150405"))
}

// WriteWorkbook renders rows as an xlsx workbook into w.
func WriteWorkbook(w io.Writer, rows []model.ReportRow) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook renders rows as an xlsx workbook at path.
func SaveWorkbook(path string, rows []model.ReportRow) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(rows []model.ReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", ExportColumns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := []interface{}{
			r.Rank,
			r.AdmissionNo,
			r.Name,
			r.TotalScore,
			r.TotalMax,
			r.Percentage,
			string(r.Grade),
		}
		if err := sw.SetRow(cell, values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush rows: %w", err)
	}
	return f, nil
}

// sanitize keeps file names portable.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
