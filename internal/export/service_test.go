package export

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"slipnorm/internal/repository"
	"slipnorm/internal/slip"
)

type stubRepo struct {
	slips []*repository.StoredSlip
}

func (s *stubRepo) Save(ctx context.Context, fileName, rawText string, rec slip.Record) (*repository.StoredSlip, error) {
	return nil, nil
}

func (s *stubRepo) List(ctx context.Context, from, to *time.Time) ([]*repository.StoredSlip, error) {
	return s.slips, nil
}

func storedFixture() *repository.StoredSlip {
	rec := slip.NewRecord()
	rec.BankFrom = "BBL"
	rec.Status = "รายการสำเร็จ"
	rec.DateTimeText = "28 ก.พ. 68 14:30"
	rec.DateTimeISO = "2025-02-28T14:30:00+07:00"
	rec.From.Name = "นายสมชาย ใจดี"
	rec.From.AccountNumber = "521-4-xxxx475"
	rec.Amount = 79.00
	rec.TransactionReference = "2025022814301234"
	return &repository.StoredSlip{
		ID:       uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		FileName: "bbl.jpg",
		Record:   rec,
	}
}

func TestExportSlipsCSV(t *testing.T) {
	svc := NewService(&stubRepo{slips: []*repository.StoredSlip{storedFixture()}}, nil)

	data, err := svc.ExportSlipsCSV(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	header := rows[0]
	if header[0] != "source_id" || header[len(header)-1] != "to.transaction_code" {
		t.Errorf("header order wrong: %v", header)
	}
	if len(header) != 21 {
		t.Errorf("header columns = %d, want 21", len(header))
	}

	idx := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q not found", name)
		return -1
	}
	row := rows[1]
	if row[idx("bank_from")] != "BBL" {
		t.Errorf("bank_from = %q", row[idx("bank_from")])
	}
	if row[idx("amount")] != "79.00" {
		t.Errorf("amount = %q", row[idx("amount")])
	}
	if row[idx("from.account_number")] != "521-4-xxxx475" {
		t.Errorf("from.account_number = %q", row[idx("from.account_number")])
	}
	if row[idx("status")] != "รายการสำเร็จ" {
		t.Errorf("status = %q", row[idx("status")])
	}
}

func TestExportSlipsXLSX(t *testing.T) {
	svc := NewService(&stubRepo{slips: []*repository.StoredSlip{storedFixture()}}, nil)

	data, err := svc.ExportSlipsXLSX(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	// XLSX files are zip archives.
	if len(data) < 4 || string(data[:2]) != "PK" {
		t.Errorf("output is not an xlsx archive")
	}
}
