package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tomasfarkasovsky/trailhead/internal/report"
	"github.com/tomasfarkasovsky/trailhead/pkg/models"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository/mock"
)

var rows = []models.UserStats{
	{Username: "ana", Name: "Ana Smith", TotalCertifications: 3, ActiveCertifications: 2, CertificationsThisYear: 1, LastCompleted: "2024-05-01"},
	{Username: "bob", Name: "bob, jr"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, rows))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, report.Columns, recs[0])
	assert.Equal(t, []string{"ana", "Ana Smith", "3", "2", "1", "2024-05-01"}, recs[1])
	assert.Equal(t, "bob, jr", recs[2][1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Certifications")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, report.Columns, got[0])
	assert.Equal(t, "ana", got[1][0])
	assert.Equal(t, "3", got[1][2])
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "trailhead_certs_2025.csv", report.DefaultFileName(2025, report.FormatCSV))
}

func TestExporter_Export(t *testing.T) {
	store := mock.NewStore()
	store.Stats = rows
	dir := t.TempDir()

	e := report.NewExporter(store, nil)
	path, n, err := e.Export(context.Background(), dir, "", report.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, filepath.Join(dir, report.DefaultFileName(time.Now().Year(), "csv")), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Username,Name,"))

	xlsx := filepath.Join(dir, "out.xlsx")
	path, _, err = e.Export(context.Background(), dir, xlsx, report.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, xlsx, path)

	_, _, err = e.Export(context.Background(), dir, "", "pdf")
	assert.Error(t, err)

	store.StatsErr = errors.New("view missing")
	_, _, err = e.Export(context.Background(), dir, "", report.FormatCSV)
	assert.Error(t, err)
}
