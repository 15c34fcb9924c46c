// Package normalizer composes profile resolution, block segmentation and
// field extraction into the slip normalization pipeline. Every step is
// pure and total; the only error a caller can see is empty input.
package normalizer

import (
	"errors"
	"log/slog"
	"strings"

	"slipnorm/internal/fields"
	"slipnorm/internal/profile"
	"slipnorm/internal/segment"
	"slipnorm/internal/slip"
)

// ErrEmptyInput is the single fatal input error: empty or blank raw text
// is rejected before any processing starts.
var ErrEmptyInput = errors.New("slip text is empty")

type Normalizer struct {
	profiles *profile.Set
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{profiles: profile.DefaultSet(), logger: logger}
}

// Normalize turns raw OCR text into a normalized record. bankHint, when
// recognized, overrides text-based bank resolution. The record passes
// through three stages — unresolved text, segmented blocks, normalized
// record — and conditions short of empty input degrade to default field
// values instead of failing.
func (n *Normalizer) Normalize(rawText, bankHint string) (slip.Record, error) {
	if strings.TrimSpace(rawText) == "" {
		return slip.Record{}, ErrEmptyInput
	}

	p := n.profiles.ByCode(bankHint)
	if p == nil {
		p = n.profiles.Resolve(rawText)
	}

	blocks := segment.Split(rawText, p)
	rec := fields.Extract(blocks, p)

	n.logger.Debug("normalize.ok",
		"bank", p.Code,
		"status", rec.Status != "",
		"date_iso", rec.DateTimeISO != "",
		"amount", rec.Amount,
	)
	return rec, nil
}
