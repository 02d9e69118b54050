package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/treatyview/internal/models"
)

const (
	// ContentType of the workbooks written here
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	numberFormat  = 4  // #,##0.00
	percentFormat = 10 // 0.00%
)

var bucketColumns = []string{
	"Period / Group",
	"Policies",
	"Premium",
	"Acquisition",
	"Paid Claims",
	"OS Loss",
	"Incurred Claims",
	"Technical Result",
	"Loss Ratio",
	"Acquisition Ratio",
	"Combined Ratio",
}

// WritePeriodSummary writes a period grid, one row per bucket plus the total
func WritePeriodSummary(w io.Writer, summary *models.PeriodSummary) error {
	title := fmt.Sprintf("%s periods", summary.Granularity)
	return write(w, sheetName(string(summary.Granularity)), title, summary.Buckets, summary.Total, false)
}

// WriteDimensionSummary writes a dimension breakdown with a premium share column
func WriteDimensionSummary(w io.Writer, summary *models.DimensionSummary) error {
	title := fmt.Sprintf("By %s (%d of %d groups)", summary.Dimension, len(summary.Buckets), summary.GroupCount)
	return write(w, sheetName(string(summary.Dimension)), title, summary.Buckets, summary.Total, true)
}

func sheetName(name string) string {
	if name == "" {
		return "Summary"
	}
	// Excel caps sheet names at 31 characters
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func write(w io.Writer, sheet, title string, buckets []models.Bucket, total models.Bucket, withShare bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := append([]string{}, bucketColumns...)
	if withShare {
		headers = append(headers, "Premium Share")
	}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := setRow(f, sheet, 3, toCells(headers)); err != nil {
		return err
	}

	row := 4
	for _, b := range buckets {
		if err := setRow(f, sheet, row, bucketCells(b, withShare)); err != nil {
			return err
		}
		row++
	}

	totalRow := bucketCells(total, false)
	totalRow[0] = "Total"
	if err := setRow(f, sheet, row, totalRow); err != nil {
		return err
	}

	if err := applyStyles(f, sheet, row, len(headers)); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func bucketCells(b models.Bucket, withShare bool) []interface{} {
	label := b.Label
	if label == "" {
		label = b.Key
	}
	cells := []interface{}{
		label,
		b.PolicyCount,
		b.Premium,
		b.Acquisition,
		b.PaidClaims,
		b.OSLoss,
		b.IncurredClaims,
		b.TechnicalResult,
		b.LossRatioPct / 100,
		b.AcquisitionPct / 100,
		b.CombinedRatioPct / 100,
	}
	if withShare {
		cells = append(cells, b.PremiumSharePct/100)
	}
	return cells
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// applyStyles bolds the title, header and total rows and formats the numbers
func applyStyles(f *excelize.File, sheet string, lastRow, columns int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	numbers, err := f.NewStyle(&excelize.Style{NumFmt: numberFormat})
	if err != nil {
		return err
	}
	percents, err := f.NewStyle(&excelize.Style{NumFmt: percentFormat})
	if err != nil {
		return err
	}

	lastColumn, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}

	ranges := []struct {
		from, to string
		style    int
	}{
		{"C4", fmt.Sprintf("H%d", lastRow), numbers},
		{"I4", fmt.Sprintf("%s%d", lastColumn, lastRow), percents},
	}
	for _, r := range ranges {
		if err := f.SetCellStyle(sheet, r.from, r.to, r.style); err != nil {
			return err
		}
	}

	for _, row := range []int{1, 3, lastRow} {
		if err := f.SetRowStyle(sheet, row, row, bold); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "A", 28)
}
