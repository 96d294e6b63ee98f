package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

var csvHeader = []string{
	"address", "suburb", "price", "price_numeric",
	"bedrooms", "bathrooms", "parking",
	"property_type", "source", "link", "features", "scraped_at",
}

// CSVWriter appends raw property records to a CSV file, writing the header
// when the file is new.
type CSVWriter struct {
	path   string
	logger *utils.Logger
}

func NewCSVWriter(path string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{path: path, logger: logger}
}

// WriteRaw appends all records to the target file.
func (w *CSVWriter) WriteRaw(properties []*models.Property) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("storage: create output dir: %w", err)
	}

	info, statErr := os.Stat(w.path)
	isNew := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("storage: open csv %q: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("storage: write csv header: %w", err)
		}
	}

	for _, p := range properties {
		priceNumeric := ""
		if p.HasNumericPrice() {
			priceNumeric = strconv.FormatFloat(*p.PriceNumeric, 'f', 2, 64)
		}
		record := []string{
			p.Address,
			p.Suburb,
			p.Price,
			priceNumeric,
			strconv.Itoa(p.Bedrooms),
			strconv.Itoa(p.Bathrooms),
			strconv.Itoa(p.Parking),
			p.PropertyType,
			p.Source,
			p.Link,
			strings.Join(p.Features, ";"),
			p.ScrapedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("storage: write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("storage: flush csv: %w", err)
	}

	w.logger.Info("[storage] Wrote %d record(s) to %s", len(properties), w.path)
	return nil
}
