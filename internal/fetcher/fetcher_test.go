package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheme(t *testing.T) {
	tests := map[string]string{
		"data/counties-10m.json":                 "",
		"/abs/path/stats.csv":                    "",
		`C:\data\stats.csv`:                      "",
		"file:///tmp/stats.csv":                  "file",
		"HTTPS://cdn.jsdelivr.net/counties.json": "https",
		"ftp://ftp2.census.gov/x.zip":            "ftp",
	}
	for in, want := range tests {
		assert.Equal(t, want, Scheme(in), in)
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".json", Ext("data/counties-10m.JSON"))
	assert.Equal(t, ".zip", Ext("https://example.com/tl_2024_us_county.zip?download=1"))
	assert.Equal(t, ".csv", Ext("ftp://mirror.example.com/stats.csv"))
	assert.Equal(t, "", Ext("data/README"))
}

func TestClient_OpenLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.csv")
	require.NoError(t, os.WriteFile(path, []byte("cnty_fips\n"), 0o644))

	c := New(Options{TempDir: t.TempDir()})
	for _, loc := range []string{path, "file://" + path} {
		rc, err := c.Open(context.Background(), loc)
		require.NoError(t, err, loc)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		assert.Equal(t, "cnty_fips\n", string(data))
	}

	_, err := c.Open(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = c.Open(context.Background(), "gopher://example.com/x")
	assert.Error(t, err)
}

func TestClient_OpenHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	c := New(Options{HTTP: HTTPOptions{RetryBase: time.Millisecond}})
	rc, err := c.Open(context.Background(), srv.URL+"/x.json")
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "remote", string(data))
}

func TestClient_FetchLocalIsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.shp")
	require.NoError(t, os.WriteFile(path, []byte("shp"), 0o644))

	c := New(Options{TempDir: t.TempDir()})
	got, err := c.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = c.Fetch(context.Background(), path+".missing")
	assert.Error(t, err)
}

func TestClient_FetchRemoteDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("zip bytes"))
	}))
	defer srv.Close()

	tmp := t.TempDir()
	c := New(Options{TempDir: tmp, HTTP: HTTPOptions{RetryBase: time.Millisecond}})

	for range 2 {
		got, err := c.Fetch(context.Background(), srv.URL+"/geo/tl_2024_us_county.zip")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmp, "tl_2024_us_county.zip"), got)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_FetchRemoteFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tmp := t.TempDir()
	c := New(Options{TempDir: tmp})
	_, err := c.Fetch(context.Background(), srv.URL+"/stats.csv")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(tmp, "stats.csv"))

	_, err = c.Fetch(context.Background(), srv.URL+"/")
	assert.Error(t, err)
}
