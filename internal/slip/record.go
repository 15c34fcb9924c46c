// Package slip defines the normalized output record for a Thai bank
// payment slip and its JSON schema.
package slip

// Party is the sender side of a transfer.
type Party struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
}

// Payee is the recipient side. For merchant / QR bill payments the biller
// fields are populated instead of (or alongside) a masked account.
type Payee struct {
	Name            string `json:"name"`
	AccountNumber   string `json:"account_number"`
	BillerID        string `json:"biller_id"`
	StoreCode       string `json:"store_code"`
	TransactionCode string `json:"transaction_code"`
}

// Record is the normalized slip. Every string field defaults to "" and
// every numeric field to 0 when the source text does not carry it; the
// record is built once by the normalizer and never mutated afterwards.
//
// DateTimeText keeps the date string exactly as it appeared on the slip.
// DateTimeISO, when non-empty, is ISO-8601 with a literal +07:00 offset.
// Masked account numbers are preserved byte-for-byte.
type Record struct {
	BankFrom             string  `json:"bank_from"`
	BankTo               string  `json:"bank_to"`
	Status               string  `json:"status"`
	DateTimeText         string  `json:"date_time_text"`
	DateTimeISO          string  `json:"date_time_iso"`
	From                 Party   `json:"from"`
	To                   Payee   `json:"to"`
	Amount               float64 `json:"amount"`
	Fee                  float64 `json:"fee"`
	Currency             string  `json:"currency"`
	TransactionReference string  `json:"transaction_reference"`
	ReferenceNumber      string  `json:"reference_number"`
	ReferenceCode        string  `json:"reference_code"`
	QRCode               string  `json:"qr_code"`
}

// NewRecord returns a Record with defaults applied.
func NewRecord() Record {
	return Record{Currency: "THB"}
}
