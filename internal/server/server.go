// Package server exposes the normalizer over HTTP: OCR upload, single and
// batch normalization, stored slip listing, and spreadsheet export.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"slipnorm/internal/export"
	"slipnorm/internal/normalizer"
	"slipnorm/internal/ocr"
	"slipnorm/internal/repository"
)

type Server struct {
	normalizer *normalizer.Normalizer
	slips      repository.SlipRepository
	export     *export.Service
	ocr        *ocr.Client
	maxSlips   int
	logger     *slog.Logger
}

func New(n *normalizer.Normalizer, slips repository.SlipRepository, exp *export.Service, ocrClient *ocr.Client, maxSlips int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSlips <= 0 {
		maxSlips = 50
	}
	return &Server{
		normalizer: n,
		slips:      slips,
		export:     exp,
		ocr:        ocrClient,
		maxSlips:   maxSlips,
		logger:     logger,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", s.Healthz)

	r.Post("/api/ocr", s.ExtractText)
	r.Post("/api/slips", s.NormalizeSlip)
	r.Post("/api/slips/batch", s.NormalizeBatch)
	r.Get("/api/slips", s.ListSlips)
	r.Get("/api/slips/export", s.ExportSlips)

	return r
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
