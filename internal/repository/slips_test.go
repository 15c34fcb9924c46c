package repository

import (
	"context"
	"testing"
	"time"

	"slipnorm/internal/slip"
)

func testRepo(t *testing.T) SlipRepository {
	t.Helper()
	db, err := Open(":memory:", nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSlipRepository(db, nil)
}

func sampleRecord(iso string) slip.Record {
	rec := slip.NewRecord()
	rec.BankFrom = "SCB"
	rec.Status = "Successful Transfer"
	rec.DateTimeISO = iso
	rec.From.Name = "MR SOMCHAI J"
	rec.From.AccountNumber = "xxx-xxx451-4"
	rec.Amount = 25.00
	rec.TransactionReference = "013108085748MOB1234"
	return rec
}

func TestSaveAndList(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, "slip1.jpg", "raw text", sampleRecord("2025-01-31T08:05:00+07:00"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID.String() == "" {
		t.Error("saved slip has no id")
	}

	got, err := repo.List(ctx, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(got))
	}
	s := got[0]
	if s.ID != saved.ID {
		t.Errorf("id = %s, want %s", s.ID, saved.ID)
	}
	if s.FileName != "slip1.jpg" {
		t.Errorf("file_name = %q", s.FileName)
	}
	if s.Record != sampleRecord("2025-01-31T08:05:00+07:00") {
		t.Errorf("record round trip mismatch: %+v", s.Record)
	}
}

func TestListDateRange(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, iso := range []string{
		"2025-01-15T10:00:00+07:00",
		"2025-02-20T10:00:00+07:00",
		"2025-03-25T10:00:00+07:00",
	} {
		if _, err := repo.Save(ctx, "", "raw", sampleRecord(iso)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	got, err := repo.List(ctx, &from, &to)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(got))
	}
	if got[0].Record.DateTimeISO != "2025-02-20T10:00:00+07:00" {
		t.Errorf("date_time_iso = %q", got[0].Record.DateTimeISO)
	}
}
