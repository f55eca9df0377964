package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/engine"
	"github.com/arrowtools/arrowcat/internal/export"
	"github.com/arrowtools/arrowcat/internal/types"
)

// extractRequest is the payload of /api/extract and /api/scan.
type extractRequest struct {
	URL       string `json:"url"`
	LoadSpecs *bool  `json:"load_specifications"`
}

// exportRequest is the payload of /api/export: an edited product list to
// be re-rendered without re-running extraction.
type exportRequest struct {
	VehicleInfo types.VehicleInfo `json:"vehicle_info"`
	Products    []*types.Product  `json:"products"`
}

// handleExtract runs the full pipeline and writes the import files.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExtract(w, r)
	if !ok {
		return
	}

	res, err := s.engine.Run(r.Context(), req.URL, engine.Options{LoadSpecs: req.loadSpecs()})
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	filename := s.exportFilename(res.VehicleInfo.ID, "csv")
	csvPath := filepath.Join(s.exportsDir, filename)
	if err := s.csv.WriteFile(csvPath, res.VehicleInfo, res.Products); err != nil {
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	snap := export.NewSnapshot(res.VehicleInfo, req.URL, res.Strategy, res.Products)
	jsonPath := csvPath[:len(csvPath)-len("csv")] + "json"
	if err := snap.WriteJSONFile(jsonPath); err != nil {
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	if s.metrics != nil {
		s.metrics.ExportsWritten.Add(2)
	}

	if s.store != nil {
		if err := s.store.SaveSnapshot(r.Context(), snap); err != nil {
			s.logger.Warn("snapshot store failed", "error", err)
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"vehicle_id":     res.VehicleInfo.ID,
		"total_products": len(res.Products),
		"partial":        res.Partial,
		"filename":       filename,
		"download_url":   "/api/download/" + filename,
	})
}

// handleScan runs the pipeline and returns the normalized list without
// writing any files.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExtract(w, r)
	if !ok {
		return
	}

	res, err := s.engine.Run(r.Context(), req.URL, engine.Options{LoadSpecs: req.loadSpecs()})
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	snap := export.NewSnapshot(res.VehicleInfo, req.URL, res.Strategy, res.Products)
	s.writeJSON(w, http.StatusOK, snap)
}

// handleExport re-renders an edited product list as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Products) == 0 {
		s.writeError(w, http.StatusBadRequest, "product list is empty")
		return
	}

	filename := s.exportFilename(req.VehicleInfo.ID, "csv")
	csvPath := filepath.Join(s.exportsDir, filename)
	if err := s.csv.WriteFile(csvPath, req.VehicleInfo, req.Products); err != nil {
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	if s.metrics != nil {
		s.metrics.ExportsWritten.Add(1)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"total_products": len(req.Products),
		"filename":       filename,
		"download_url":   "/api/download/" + filename,
	})
}

// handleDownload serves a previously rendered export file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	// Base strips any path traversal the client might try.
	filename := filepath.Base(chi.URLParam(r, "filename"))
	path := filepath.Join(s.exportsDir, filename)

	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if filepath.Ext(filename) == ".csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (r *extractRequest) loadSpecs() bool {
	if r.LoadSpecs == nil {
		return true
	}
	return *r.LoadSpecs
}

func (s *Server) decodeExtract(w http.ResponseWriter, r *http.Request) (*extractRequest, bool) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return nil, false
	}
	return &req, true
}

// exportFilename builds a unique export file name for one run.
func (s *Server) exportFilename(vehicleID int, ext string) string {
	return fmt.Sprintf("arrow_vehicle_%d_%s_%s.%s",
		vehicleID,
		time.Now().UTC().Format("20060102_150405"),
		uuid.NewString()[:8],
		ext,
	)
}

// writeRunError maps pipeline failures onto the short categorized
// messages the portal reports.
func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidSource):
		s.writeError(w, http.StatusBadRequest, "invalid vendor URL")
	case errors.Is(err, types.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "no products found")
	default:
		s.logger.Error("extraction failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "extraction failed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
