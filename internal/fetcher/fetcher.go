// Package fetcher retrieves the dashboard's input resources from local paths,
// HTTP(S) or FTP, and decodes the tabular and archive formats they come in.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Options configures a Client.
type Options struct {
	HTTP    HTTPOptions
	FTP     FTPOptions
	TempDir string // where remote resources are materialized by Fetch
}

// Client resolves a location (local path, file://, http(s)://, ftp://) to
// its content.
type Client struct {
	http    Fetcher
	ftp     Fetcher
	tempDir string
}

// New creates a Client with HTTP and FTP transports.
func New(opts Options) *Client {
	if opts.TempDir == "" {
		opts.TempDir = filepath.Join(os.TempDir(), "healthmap")
	}
	return &Client{
		http:    NewHTTPFetcher(opts.HTTP),
		ftp:     NewFTPFetcher(opts.FTP),
		tempDir: opts.TempDir,
	}
}

// Scheme returns the lower-cased URL scheme of location, or "" for a plain
// filesystem path.
func Scheme(location string) string {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) < 2 {
		// Single-letter schemes are Windows drive letters.
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// Ext returns the lower-cased extension of the location's path, ignoring
// any query string.
func Ext(location string) string {
	p := location
	if Scheme(location) != "" {
		if u, err := url.Parse(location); err == nil {
			p = u.Path
		}
	}
	return strings.ToLower(path.Ext(p))
}

// Open returns a reader over the content at location. The caller must close it.
func (c *Client) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch Scheme(location) {
	case "http", "https":
		return c.http.Download(ctx, location)
	case "ftp":
		return c.ftp.Download(ctx, location)
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: parse file url")
		}
		return openLocal(u.Path)
	case "":
		return openLocal(location)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme in %q", location)
	}
}

// Fetch returns a local filesystem path holding the content at location.
// Local paths are returned unchanged; remote resources are downloaded into
// the temp directory once and reused while the file exists with content.
func (c *Client) Fetch(ctx context.Context, location string) (string, error) {
	scheme := Scheme(location)
	switch scheme {
	case "":
		if err := statLocal(location); err != nil {
			return "", err
		}
		return location, nil
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return "", eris.Wrap(err, "fetcher: parse file url")
		}
		if err := statLocal(u.Path); err != nil {
			return "", err
		}
		return u.Path, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: parse url")
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", eris.Errorf("fetcher: cannot derive file name from %q", location)
	}

	if err := os.MkdirAll(c.tempDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create temp dir")
	}
	dest := filepath.Join(c.tempDir, name)

	log := zap.L().With(zap.String("component", "fetcher"), zap.String("url", location))
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		log.Debug("already downloaded, reusing", zap.String("path", dest))
		return dest, nil
	}

	var f Fetcher
	switch scheme {
	case "http", "https":
		f = c.http
	case "ftp":
		f = c.ftp
	default:
		return "", eris.Errorf("fetcher: unsupported scheme in %q", location)
	}

	log.Info("downloading")
	n, err := f.DownloadToFile(ctx, location, dest)
	if err != nil {
		_ = os.Remove(dest)
		return "", eris.Wrap(err, "fetcher: download")
	}
	log.Info("downloaded", zap.String("path", dest), zap.Int64("bytes", n))
	return dest, nil
}

func openLocal(p string) (io.ReadCloser, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", p)
	}
	return f, nil
}

func statLocal(p string) error {
	if _, err := os.Stat(p); err != nil {
		return eris.Wrapf(err, "fetcher: stat %s", p)
	}
	return nil
}
