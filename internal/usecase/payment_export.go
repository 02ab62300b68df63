package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

var paymentExportHeaders = []string{"DATE", "JOB", "PROMOTER", "AMOUNT", "STATUS", "PAYMENT ID"}

func paymentExportRow(p domain.Payment) []interface{} {
	job, promoter := "", ""
	if p.JobTitle != nil {
		job = *p.JobTitle
	}
	if p.PromoterName != nil {
		promoter = *p.PromoterName
	}
	return []interface{}{
		p.CreatedAt.Format("2006-01-02"),
		job,
		promoter,
		p.Amount,
		string(p.Status),
		p.ID,
	}
}

// exportPaymentsExcel writes one sheet with a styled header row.
func exportPaymentsExcel(payments []domain.Payment) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Payments"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range paymentExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(paymentExportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	// two decimals for the amount column
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2})

	for rowIdx, payment := range payments {
		for colIdx, value := range paymentExportRow(payment) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
		amountCell, _ := excelize.CoordinatesToCellName(4, rowIdx+2)
		f.SetCellStyle(sheetName, amountCell, amountCell, amountStyle)
	}

	for i := range paymentExportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func exportPaymentsCSV(payments []domain.Payment) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(paymentExportHeaders); err != nil {
		return nil, "", err
	}
	for _, payment := range payments {
		row := paymentExportRow(payment)
		record := make([]string, len(row))
		for i, value := range row {
			switch v := value.(type) {
			case float64:
				record[i] = strconv.FormatFloat(v, 'f', 2, 64)
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	filename := fmt.Sprintf("payments_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
