package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"slipnorm/internal/slip"
)

// StoredSlip is a normalized slip together with its ingest metadata.
type StoredSlip struct {
	ID        uuid.UUID   `json:"id"`
	FileName  string      `json:"file_name"`
	RawText   string      `json:"-"`
	Record    slip.Record `json:"record"`
	CreatedAt time.Time   `json:"created_at"`
}

type SlipRepository interface {
	Save(ctx context.Context, fileName, rawText string, rec slip.Record) (*StoredSlip, error)
	List(ctx context.Context, fromDate, toDate *time.Time) ([]*StoredSlip, error)
}

type slipRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSlipRepository(db *sql.DB, logger *slog.Logger) SlipRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &slipRepository{db: db, logger: logger}
}

func (r *slipRepository) Save(ctx context.Context, fileName, rawText string, rec slip.Record) (*StoredSlip, error) {
	id := uuid.New()
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slips (
			id, file_name, raw_text,
			bank_from, bank_to, status, date_time_text, date_time_iso,
			from_name, from_account,
			to_name, to_account, to_biller_id, to_store_code, to_transaction_code,
			amount, fee, currency,
			transaction_reference, reference_number, reference_code, qr_code,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), fileName, rawText,
		rec.BankFrom, rec.BankTo, rec.Status, rec.DateTimeText, rec.DateTimeISO,
		rec.From.Name, rec.From.AccountNumber,
		rec.To.Name, rec.To.AccountNumber, rec.To.BillerID, rec.To.StoreCode, rec.To.TransactionCode,
		rec.Amount, rec.Fee, rec.Currency,
		rec.TransactionReference, rec.ReferenceNumber, rec.ReferenceCode, rec.QRCode,
		now.Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Error("slips.save.failed", "file_name", fileName, "error", err)
		return nil, fmt.Errorf("insert slip: %w", err)
	}

	r.logger.Debug("slips.save.ok", "id", id, "file_name", fileName)
	return &StoredSlip{ID: id, FileName: fileName, RawText: rawText, Record: rec, CreatedAt: now}, nil
}

func (r *slipRepository) List(ctx context.Context, fromDate, toDate *time.Time) ([]*StoredSlip, error) {
	query := `
		SELECT id, file_name, raw_text,
			bank_from, bank_to, status, date_time_text, date_time_iso,
			from_name, from_account,
			to_name, to_account, to_biller_id, to_store_code, to_transaction_code,
			amount, fee, currency,
			transaction_reference, reference_number, reference_code, qr_code,
			created_at
		FROM slips`
	var args []any
	var conds []string
	if fromDate != nil {
		conds = append(conds, "date_time_iso >= ?")
		args = append(args, fromDate.Format("2006-01-02"))
	}
	if toDate != nil {
		conds = append(conds, "date_time_iso <= ?")
		args = append(args, toDate.Format("2006-01-02")+"T23:59:59+07:00")
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("slips.list.failed", "error", err)
		return nil, fmt.Errorf("list slips: %w", err)
	}
	defer rows.Close()

	var out []*StoredSlip
	for rows.Next() {
		s, err := scanSlip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSlip(rows *sql.Rows) (*StoredSlip, error) {
	var s StoredSlip
	var idStr, createdAt string
	err := rows.Scan(
		&idStr, &s.FileName, &s.RawText,
		&s.Record.BankFrom, &s.Record.BankTo, &s.Record.Status,
		&s.Record.DateTimeText, &s.Record.DateTimeISO,
		&s.Record.From.Name, &s.Record.From.AccountNumber,
		&s.Record.To.Name, &s.Record.To.AccountNumber,
		&s.Record.To.BillerID, &s.Record.To.StoreCode, &s.Record.To.TransactionCode,
		&s.Record.Amount, &s.Record.Fee, &s.Record.Currency,
		&s.Record.TransactionReference, &s.Record.ReferenceNumber, &s.Record.ReferenceCode,
		&s.Record.QRCode,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan slip: %w", err)
	}
	if s.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse slip id %q: %w", idStr, err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		s.CreatedAt = t
	}
	return &s, nil
}
