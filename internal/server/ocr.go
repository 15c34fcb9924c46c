package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"slipnorm/constants"
	"slipnorm/internal/ocr"
)

const maxUploadBytes = 20 << 20

// ExtractText accepts a multipart slip image and returns the OCR text.
// The caller decides whether to feed the text to /api/slips afterwards.
func (s *Server) ExtractText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()

	if !constants.IsAllowedImage(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", header.Filename))
		return
	}

	start := time.Now()
	text, err := s.ocr.ExtractText(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, ocr.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}

	s.logger.Info("server.ocr.ok",
		"file_name", header.Filename,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"file_name": header.Filename,
		"text":      text,
	})
}
