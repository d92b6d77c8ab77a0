package tiger

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/fetcher"
)

// Download resolves a TIGER/Line shapefile location to a local .shp path.
// location may name a .shp directly or a .zip archive (local or remote);
// archives are extracted under destDir.
func Download(ctx context.Context, client *fetcher.Client, location, destDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "tiger.download"),
		zap.String("location", location),
	)

	local, err := client.Fetch(ctx, location)
	if err != nil {
		return "", eris.Wrap(err, "tiger: fetch shapefile")
	}

	switch ext := strings.ToLower(filepath.Ext(local)); ext {
	case ".shp":
		return local, nil
	case ".zip":
	default:
		return "", eris.Errorf("tiger: unsupported shapefile container %q", ext)
	}

	zipName := filepath.Base(local)
	extractDir := filepath.Join(destDir, strings.TrimSuffix(zipName, filepath.Ext(zipName)))
	files, err := fetcher.ExtractZIP(local, extractDir)
	if err != nil {
		return "", eris.Wrap(err, "tiger: extract ZIP")
	}

	shpPath, err := fetcher.FindByExt(files, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "tiger: find .shp file")
	}
	log.Debug("extracted shapefile", zap.String("path", shpPath), zap.Int("files", len(files)))
	return shpPath, nil
}
