package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/logging"
	"github.com/tomasfarkasovsky/trailhead/pkg/models"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Certifications"
)

// Columns is the header row of every export.
var Columns = []string{
	"Username",
	"Name",
	"Total Certifications",
	"Active Certifications",
	"Certifications This Year",
	"Last Completed",
}

// DefaultFileName is trailhead_certs_{year}.{format}.
func DefaultFileName(year int, format string) string {
	return fmt.Sprintf("trailhead_certs_%d.%s", year, format)
}

func record(s models.UserStats) []string {
	return []string{
		s.Username,
		s.Name,
		strconv.Itoa(s.TotalCertifications),
		strconv.Itoa(s.ActiveCertifications),
		strconv.Itoa(s.CertificationsThisYear),
		s.LastCompleted,
	}
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []models.UserStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, rows []models.UserStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Username, r.Name, r.TotalCertifications, r.ActiveCertifications, r.CertificationsThisYear, r.LastCompleted}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "F", 22); err != nil {
		return err
	}

	return f.Write(w)
}

// Exporter reads the stats view and writes it to a file.
type Exporter struct {
	stats  repository.StatsRepo
	logger *zap.Logger
	now    func() time.Time
}

func NewExporter(stats repository.StatsRepo, logger *zap.Logger) *Exporter {
	return &Exporter{stats: stats, logger: logging.OrNop(logger), now: time.Now}
}

// Export writes the report to path, or to dir/DefaultFileName when path is
// empty, and returns the written path and row count.
func (e *Exporter) Export(ctx context.Context, dir, path, format string) (string, int, error) {
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return "", 0, fmt.Errorf("unsupported report format %q", format)
	}
	if path == "" {
		path = filepath.Join(dir, DefaultFileName(e.now().Year(), format))
	}

	rows, err := e.stats.ListUserStats(ctx)
	if err != nil {
		return "", 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create report: %w", err)
	}

	if format == FormatXLSX {
		err = WriteXLSX(f, rows)
	} else {
		err = WriteCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, fmt.Errorf("write report %s: %w", path, err)
	}

	e.logger.Info("report written", zap.String("path", path), zap.String("format", format), zap.Int("rows", len(rows)))
	return path, len(rows), nil
}
