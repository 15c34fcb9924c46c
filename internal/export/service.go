// Package export renders stored slips as XLSX workbooks and CSV files.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"slipnorm/internal/repository"
)

// Service is a tiny façade over the slip repository that produces export bytes.
type Service struct {
	slips  repository.SlipRepository
	logger *slog.Logger
}

func NewService(slips repository.SlipRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{slips: slips, logger: logger}
}

// Column order is fixed; downstream spreadsheets key on it.
var columns = []string{
	"source_id",
	"file_name",
	"bank_from",
	"bank_to",
	"status",
	"date_time_text",
	"date_time_iso",
	"reference_number",
	"transaction_reference",
	"reference_code",
	"amount",
	"fee",
	"currency",
	"qr_code",
	"from.name",
	"from.account_number",
	"to.name",
	"to.account_number",
	"to.biller_id",
	"to.store_code",
	"to.transaction_code",
}

func rowValues(s *repository.StoredSlip) []string {
	r := s.Record
	return []string{
		s.ID.String(),
		s.FileName,
		r.BankFrom,
		r.BankTo,
		r.Status,
		r.DateTimeText,
		r.DateTimeISO,
		r.ReferenceNumber,
		r.TransactionReference,
		r.ReferenceCode,
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
		strconv.FormatFloat(r.Fee, 'f', 2, 64),
		r.Currency,
		r.QRCode,
		r.From.Name,
		r.From.AccountNumber,
		r.To.Name,
		r.To.AccountNumber,
		r.To.BillerID,
		r.To.StoreCode,
		r.To.TransactionCode,
	}
}

// ExportSlipsXLSX returns an XLSX workbook (as bytes) for the given date window.
// A nil from or to leaves that side of the window open.
func (s *Service) ExportSlipsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	slips, err := s.slips.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query slips: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Slips"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, stored := range slips {
		values := rowValues(stored)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			// Amounts go in as numbers so the sheet can sum them.
			switch columns[col] {
			case "amount":
				_ = f.SetCellValue(sheet, cell, stored.Record.Amount)
			case "fee":
				_ = f.SetCellValue(sheet, cell, stored.Record.Fee)
			default:
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // source id
	_ = f.SetColWidth(sheet, "B", "B", 24) // file name
	_ = f.SetColWidth(sheet, "G", "G", 26) // iso date
	_ = f.SetColWidth(sheet, "H", "J", 24) // references
	_ = f.SetColWidth(sheet, "O", "R", 28) // parties

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(slips),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportSlipsCSV returns UTF-8 CSV bytes with the same columns as the XLSX export.
func (s *Service) ExportSlipsCSV(ctx context.Context, from, to *time.Time) ([]byte, error) {
	slips, err := s.slips.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query slips: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("csv write header: %w", err)
	}
	for _, stored := range slips {
		if err := w.Write(rowValues(stored)); err != nil {
			return nil, fmt.Errorf("csv write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	s.logger.Info("export.csv.ok", "rows", len(slips))
	return buf.Bytes(), nil
}
