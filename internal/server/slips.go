package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"slipnorm/internal/normalizer"
	"slipnorm/internal/repository"
	"slipnorm/internal/slip"
)

type normalizeRequest struct {
	RawText  string `json:"raw_text"`
	BankHint string `json:"bank"`
	FileName string `json:"file_name"`
}

type normalizeResponse struct {
	ID       string      `json:"id,omitempty"`
	FileName string      `json:"file_name,omitempty"`
	Record   slip.Record `json:"record"`
}

func (s *Server) NormalizeSlip(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	rec, err := s.normalizer.Normalize(req.RawText, req.BankHint)
	if err != nil {
		if errors.Is(err, normalizer.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := slip.ValidateRecordJSON(data); err != nil {
		s.logger.Error("slips.validate.failed", "file_name", req.FileName, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("record failed validation: %w", err))
		return
	}

	stored, err := s.slips.Save(r.Context(), req.FileName, req.RawText, rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, normalizeResponse{
		ID:       stored.ID.String(),
		FileName: stored.FileName,
		Record:   stored.Record,
	})
}

type batchRequest struct {
	Slips []normalizer.BatchInput `json:"slips"`
}

type batchItem struct {
	Index    int          `json:"index"`
	FileName string       `json:"file_name,omitempty"`
	ID       string       `json:"id,omitempty"`
	Record   *slip.Record `json:"record,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func (s *Server) NormalizeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if len(req.Slips) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("empty batch"))
		return
	}
	if len(req.Slips) > s.maxSlips {
		writeError(w, http.StatusBadRequest, fmt.Errorf("batch of %d exceeds limit %d", len(req.Slips), s.maxSlips))
		return
	}

	results := s.normalizer.NormalizeBatch(r.Context(), req.Slips, 0)

	items := make([]batchItem, len(results))
	for i, res := range results {
		item := batchItem{Index: res.Index, FileName: res.FileName}
		if res.Err != nil {
			item.Error = res.Err.Error()
			items[i] = item
			continue
		}
		stored, err := s.slips.Save(r.Context(), res.FileName, req.Slips[res.Index].RawText, res.Record)
		if err != nil {
			item.Error = err.Error()
			items[i] = item
			continue
		}
		item.ID = stored.ID.String()
		rec := stored.Record
		item.Record = &rec
		items[i] = item
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func (s *Server) ListSlips(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	slips, err := s.slips.List(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if slips == nil {
		slips = []*repository.StoredSlip{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slips": slips})
}

func parseDateRange(r *http.Request) (from, to *time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date %q", v)
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date %q", v)
		}
		to = &t
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
