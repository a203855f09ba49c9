// Package export renders invoices as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

// SheetName is the worksheet holding the invoice rows
const SheetName = "Invoices"

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"Invoice #", "Customer", "Date", "Due Date", "Total", "Balance", "Memo"}

// Writer renders invoice workbooks
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new workbook writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteInvoices writes one header row, one row per invoice and a totals row
func (w *Writer) WriteInvoices(out io.Writer, invoices []entity.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	var total, balance float64
	for i, inv := range invoices {
		row := []any{
			inv.DocNumber,
			inv.CustomerName(),
			inv.TxnDate,
			inv.DueDate,
			inv.TotalAmt,
			inv.Balance,
			inv.Memo(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write invoice %s: %w", inv.ID, err)
		}
		total += inv.TotalAmt
		balance += inv.Balance
	}

	last := len(invoices) + 2
	totals := []any{"Total", "", "", "", total, balance}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", last), &totals); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	w.setStyle(f, "A1", "G1", bold)
	w.setStyle(f, fmt.Sprintf("A%d", last), fmt.Sprintf("G%d", last), bold)
	w.setStyle(f, "E2", fmt.Sprintf("F%d", last), money)

	if err := f.SetColWidth(SheetName, "B", "B", 24); err != nil {
		w.logger.Warn("Failed to set column width", zap.Error(err))
	}
	if err := f.SetColWidth(SheetName, "G", "G", 36); err != nil {
		w.logger.Warn("Failed to set column width", zap.Error(err))
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Debug("Invoice workbook written", zap.Int("rows", len(invoices)))
	return nil
}

func (w *Writer) setStyle(f *excelize.File, from, to string, style int) {
	if err := f.SetCellStyle(SheetName, from, to, style); err != nil {
		w.logger.Warn("Failed to set cell style",
			zap.String("range", from+":"+to),
			zap.Error(err))
	}
}
