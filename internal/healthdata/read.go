package healthdata

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/fetcher"
)

// ReadStatistics loads the statistics rows at location. The format follows
// the extension: .csv, .xlsx (first sheet, first row is the header) or
// .json (an array of objects keyed by column name).
func ReadStatistics(ctx context.Context, client *fetcher.Client, location string) ([]Row, error) {
	var (
		header  []string
		records [][]string
		err     error
	)

	switch ext := fetcher.Ext(location); ext {
	case ".csv":
		header, records, err = readCSV(ctx, client, location)
	case ".xlsx":
		header, records, err = readXLSX(ctx, client, location)
	case ".json":
		header, records, err = readJSON(ctx, client, location)
	default:
		return nil, eris.Errorf("healthdata: unsupported statistics format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	rows, err := ParseRows(header, records)
	if err != nil {
		return nil, err
	}
	zap.L().Info("healthdata: statistics loaded",
		zap.String("location", location),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", len(records)-len(rows)),
	)
	return rows, nil
}

func readCSV(ctx context.Context, client *fetcher.Client, location string) ([]string, [][]string, error) {
	rc, err := client.Open(ctx, location)
	if err != nil {
		return nil, nil, eris.Wrap(err, "healthdata: open statistics")
	}
	defer rc.Close() //nolint:errcheck

	header, records, err := fetcher.ReadCSV(ctx, rc)
	if err != nil {
		return nil, nil, eris.Wrap(err, "healthdata: parse csv")
	}
	return header, records, nil
}

func readXLSX(ctx context.Context, client *fetcher.Client, location string) ([]string, [][]string, error) {
	path, err := client.Fetch(ctx, location)
	if err != nil {
		return nil, nil, eris.Wrap(err, "healthdata: fetch statistics")
	}
	all, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, nil, eris.Wrap(err, "healthdata: parse xlsx")
	}
	if len(all) == 0 {
		return nil, nil, eris.New("healthdata: xlsx has no header row")
	}
	return all[0], all[1:], nil
}

func readJSON(ctx context.Context, client *fetcher.Client, location string) ([]string, [][]string, error) {
	rc, err := client.Open(ctx, location)
	if err != nil {
		return nil, nil, eris.Wrap(err, "healthdata: open statistics")
	}
	defer rc.Close() //nolint:errcheck

	header, records, err := fetcher.ReadJSONRecords(ctx, rc)
	if err != nil {
		return nil, nil, eris.Wrap(err, "healthdata: parse json")
	}
	return header, records, nil
}
