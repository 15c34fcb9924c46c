package server

import (
	"fmt"
	"net/http"
	"time"
)

func (s *Server) ExportSlips(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case "xlsx":
		data, err := s.export.ExportSlipsXLSX(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="slips-%s.xlsx"`, stamp))
		w.Write(data)
	case "csv":
		data, err := s.export.ExportSlipsCSV(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="slips-%s.csv"`, stamp))
		w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown export format %q", format))
	}
}
