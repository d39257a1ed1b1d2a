package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/core"
	"github.com/baxromumarov/resume-screener/internal/observability"
	"github.com/baxromumarov/resume-screener/internal/resume"
)

const maxResumeBytes = 10 << 20

type ScrapeRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

// handleScrape returns the scrape Result as is; a failed scrape is still 200.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	respondJSON(w, http.StatusOK, s.screener.Preview(r.Context(), req.URL))
}

// handleScreen takes a multipart form with a "resume" file and either a
// "job_url" field or a "job_text" field (with optional "job_title") and
// answers with the resulting Record.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes)
	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Resume file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read resume: "+err.Error())
		return
	}

	doc, err := resume.Extract(header.Filename, data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !errors.Is(err, resume.ErrEmptyText) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}

	var rec core.Record
	if text := r.FormValue("job_text"); strings.TrimSpace(text) != "" {
		rec = s.screener.ScreenText(r.Context(), doc, r.FormValue("job_title"), text)
	} else {
		rec = s.screener.Screen(r.Context(), doc, r.FormValue("job_url"))
	}
	if s.store != nil {
		if err := s.store.SaveRecord(r.Context(), rec); err != nil {
			observability.IncError(observability.ErrorStore, "api")
			s.logger.Warn("failed to persist screening", zap.String("id", rec.ID), zap.Error(err))
		}
	}

	status := http.StatusOK
	if rec.Status == core.StatusInvalidURL || rec.Status == core.StatusInvalidJobText {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, rec)
}

func (s *Server) handleListScreenings(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Screening history requires a database")
		return
	}
	limit, offset := parsePagination(r, 20)

	records, err := s.store.ListRecords(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch screenings: "+err.Error())
		return
	}
	if records == nil {
		records = []core.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  records,
		"limit":  limit,
		"offset": offset,
	})
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
