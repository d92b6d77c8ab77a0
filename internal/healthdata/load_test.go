package healthdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/healthmap/internal/fetcher"
	"github.com/sells-group/healthmap/internal/metric"
)

func testClient(t *testing.T) *fetcher.Client {
	t.Helper()
	return fetcher.New(fetcher.Options{TempDir: t.TempDir()})
}

func TestLoad(t *testing.T) {
	ds, err := Load(context.Background(), Options{
		Boundaries: "testdata/counties.json",
		Statistics: "testdata/stats.csv",
		TempDir:    t.TempDir(),
		Client:     testClient(t),
	})
	require.NoError(t, err)

	geo := ds.Geography
	assert.Equal(t, 2, geo.Len())
	assert.Equal(t, 3, ds.Rows)
	assert.Equal(t, 2, geo.Report.Matched)
	assert.Equal(t, 1, geo.Report.UnmatchedRows)
	require.NotNil(t, geo.StateBorders)
	assert.Equal(t, 1, geo.StateBorders.NumLineStrings())

	travis, ok := geo.Lookup("48453")
	require.True(t, ok)
	assert.Equal(t, "Travis", travis.Name)
	assert.Equal(t, "TX", travis.State)
	assert.Equal(t, metric.Of(31), travis.Metrics.Get(metric.HighCholesterol))

	acadia, _ := geo.Lookup("22001")
	assert.False(t, acadia.Metrics.Get(metric.CoronaryHeartDisease).Valid, "-1 is missing")

	// National averages span every row, joined or not.
	assert.Equal(t, metric.Of(40), ds.National.Get(metric.HighBloodPressure))
	assert.Equal(t, metric.Of(6), ds.National.Get(metric.CoronaryHeartDisease))
	assert.Equal(t, metric.Of(3.5), ds.National.Get(metric.Stroke))
	assert.Equal(t, metric.Of(33), ds.National.Get(metric.HighCholesterol))
}

func TestLoad_OverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	defer srv.Close()

	ds, err := Load(context.Background(), Options{
		Boundaries: srv.URL + "/counties.json",
		Statistics: srv.URL + "/stats.csv",
		TempDir:    t.TempDir(),
		Client:     testClient(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Geography.Report.Matched)
}

func TestLoad_MissingInput(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		resource string
	}{
		{
			name:     "statistics",
			opts:     Options{Boundaries: "testdata/counties.json", Statistics: "testdata/nope.csv"},
			resource: "statistics",
		},
		{
			name:     "boundaries",
			opts:     Options{Boundaries: "testdata/nope.json", Statistics: "testdata/stats.csv"},
			resource: "boundaries",
		},
		{
			name:     "unsupported statistics format",
			opts:     Options{Boundaries: "testdata/counties.json", Statistics: "testdata/stats.parquet"},
			resource: "statistics",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.TempDir = t.TempDir()
			tt.opts.Client = testClient(t)

			_, err := Load(context.Background(), tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataLoad))
			assert.False(t, errors.Is(err, ErrDataIntegrity))

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.resource, le.Resource)
		})
	}
}

func TestLoad_NoCorrelation(t *testing.T) {
	dir := t.TempDir()
	stats := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(stats, []byte("cnty_fips,percent_stroke\n99001,4\n"), 0o644))

	_, err := Load(context.Background(), Options{
		Boundaries: "testdata/counties.json",
		Statistics: stats,
		TempDir:    t.TempDir(),
		Client:     testClient(t),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
	assert.False(t, errors.Is(err, ErrDataLoad))
}

func TestReadStatistics_JSON(t *testing.T) {
	rows, err := ReadStatistics(context.Background(), testClient(t), "testdata/stats.json")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Travis, TX", rows[0].Name)
	assert.Equal(t, metric.Of(2.5), rows[0].Metrics.Get(metric.Stroke))
	assert.Equal(t, metric.Of(3.5), rows[1].Metrics.Get(metric.Stroke), "numeric strings parse")
	assert.Equal(t, metric.Of(35), rows[1].Metrics.Get(metric.HighCholesterol))
	assert.Equal(t, "22001", rows[1].FIPS)
}

func TestReadStatistics_JSONTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"cnty_fips": "48453", "percent_stroke": 2.5}`), 0o644))

	_, err := ReadStatistics(context.Background(), testClient(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

func TestReadStatistics_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("data")
	require.NoError(t, err)
	for _, rec := range [][]string{
		{"cnty_fips", "display_name", "percent_stroke"},
		{"48453", "Travis, TX", "2.5"},
		{"22001", "Acadia, LA", ""},
	} {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, f.Save(path))

	rows, err := ReadStatistics(context.Background(), testClient(t), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, metric.Of(2.5), rows[0].Metrics.Get(metric.Stroke))
	assert.False(t, rows[1].Metrics.Get(metric.Stroke).Valid)
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Resource: "statistics", Location: "x.csv", Err: errors.New("boom")}
	assert.Contains(t, err.Error(), "statistics")
	assert.Contains(t, err.Error(), "x.csv")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}
