// Package export renders a normalized product list into import-ready
// destination shapes: a Shopware-style CSV and a JSON snapshot.
package export

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/types"
)

// shopwareColumns is the fixed header of the catalog-import format.
// Price, instock and image assignment are deliberately left for manual
// completion downstream.
var shopwareColumns = []string{
	"ordernumber",
	"name",
	"description",
	"supplier",
	"tax",
	"price",
	"active",
	"instock",
	"categories",
	"propertyGroup1",
	"propertyValue1",
	"propertyGroup2",
	"propertyValue2",
	"propertyGroup3",
	"propertyValue3",
	"propertyGroup4",
	"propertyValue4",
	"propertyGroup5",
	"propertyValue5",
	"propertyGroup6",
	"propertyValue6",
	"propertyGroup7",
	"propertyValue7",
	"propertyGroup8",
	"propertyValue8",
	"weight",
	"requires",
	"optional",
}

// CSVExporter renders products as delimiter-separated rows for catalog
// import. Rendering is a pure function of the product list: exporting the
// same list twice produces identical bytes.
type CSVExporter struct {
	delimiter rune
	supplier  string
	taxRate   string
	logger    *slog.Logger
}

// NewCSVExporter creates a CSV exporter from the export config.
func NewCSVExporter(cfg *config.ExportConfig, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{
		delimiter: []rune(cfg.Delimiter)[0],
		supplier:  cfg.Supplier,
		taxRate:   cfg.TaxRate,
		logger:    logger.With("component", "csv_exporter"),
	}
}

// Write renders the header and one row per product.
func (e *CSVExporter) Write(w io.Writer, info types.VehicleInfo, products []*types.Product) error {
	cw := csv.NewWriter(w)
	cw.Comma = e.delimiter

	if err := cw.Write(shopwareColumns); err != nil {
		return &types.ExportError{Path: "csv", Err: err}
	}

	for _, p := range products {
		if err := cw.Write(e.row(info, p)); err != nil {
			return &types.ExportError{Path: "csv", Err: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &types.ExportError{Path: "csv", Err: err}
	}
	return nil
}

// WriteFile renders to a file, creating parent directories as needed.
func (e *CSVExporter) WriteFile(path string, info types.VehicleInfo, products []*types.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &types.ExportError{Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &types.ExportError{Path: path, Err: err}
	}
	defer f.Close()

	if err := e.Write(f, info, products); err != nil {
		return &types.ExportError{Path: path, Err: err}
	}

	e.logger.Info("CSV written", "path", path, "products", len(products))
	return nil
}

// row maps one product onto the fixed column order. Absent values render
// as empty strings rather than failing.
func (e *CSVExporter) row(info types.VehicleInfo, p *types.Product) []string {
	active := "1"
	if p.Outlet {
		active = "0"
	}

	return []string{
		p.SKU,
		p.Name,
		p.Name,
		e.supplier,
		e.taxRate,
		"", // price: manual
		active,
		"", // instock: manual
		info.Model,
		"Produkttyp", p.Category,
		"Material Körper", p.Material,
		"Material Innen", p.Spec("Desc_Int_EN"),
		"Zertifizierung", p.Certification,
		"Kompatibel mit", p.CompatibleWith,
		"DB-Killer", p.Spec("dBKiller", "Db Killer"),
		"Lambda-Sonde", p.Spec("SondaLambda", "Oxygen sensor plug"),
		"CO-Sonde", p.Spec("SondaCO", "CO sensor plug"),
		p.Spec("Peso", "Weight (Kg)"),
		strings.Join(p.Requires, ", "),
		strings.Join(p.Optional, ", "),
	}
}
