package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arrowtools/arrowcat/internal/types"
)

// Snapshot is the full JSON rendition of an extraction run: vehicle info
// plus the product list, unmodified.
type Snapshot struct {
	VehicleID   int               `json:"vehicle_id"`
	VehicleInfo types.VehicleInfo `json:"vehicle_info"`
	URL         string            `json:"url,omitempty"`
	Products    []*types.Product  `json:"products"`
	Total       int               `json:"total_products"`
	Strategy    string            `json:"source_strategy,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
}

// NewSnapshot assembles a snapshot for a finished run.
func NewSnapshot(info types.VehicleInfo, url, strategy string, products []*types.Product) *Snapshot {
	return &Snapshot{
		VehicleID:   info.ID,
		VehicleInfo: info,
		URL:         url,
		Products:    products,
		Total:       len(products),
		Strategy:    strategy,
		Timestamp:   time.Now().UTC().Format("20060102_150405"),
	}
}

// WriteJSON renders the snapshot with indentation.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return &types.ExportError{Path: "json", Err: err}
	}
	return nil
}

// WriteJSONFile renders the snapshot to a file.
func (s *Snapshot) WriteJSONFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &types.ExportError{Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &types.ExportError{Path: path, Err: err}
	}
	defer f.Close()

	if err := s.WriteJSON(f); err != nil {
		return &types.ExportError{Path: path, Err: err}
	}
	return nil
}
