package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"sort"

	"github.com/rotisserie/eris"
)

// StreamJSONRecords decodes an array of flat objects, sending each object as
// a column name to cell text map. Numbers keep their digits as written;
// null, booleans and nested values become empty cells.
// Both channels are closed when processing completes.
func StreamJSONRecords(ctx context.Context, r io.Reader) (<-chan map[string]string, <-chan error) {
	outCh := make(chan map[string]string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)
		decoder.UseNumber()

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for n := 0; decoder.More(); n++ {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var obj map[string]any
			if err := decoder.Decode(&obj); err != nil {
				errCh <- eris.Wrapf(err, "json: decode record %d", n)
				return
			}
			rec := make(map[string]string, len(obj))
			for k, v := range obj {
				rec[k] = jsonCell(v)
			}

			select {
			case outCh <- rec:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		// A missing closing bracket means the input was truncated.
		if _, err := decoder.Token(); err != nil {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// ReadJSONRecords drains StreamJSONRecords into the same shape ReadCSV
// returns: a header holding the sorted union of keys and one row per object,
// with absent keys as empty cells.
func ReadJSONRecords(ctx context.Context, r io.Reader) ([]string, [][]string, error) {
	recCh, errCh := StreamJSONRecords(ctx, r)

	var objs []map[string]string
	seen := make(map[string]struct{})
	var header []string
	for rec := range recCh {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				header = append(header, k)
			}
		}
		objs = append(objs, rec)
	}
	if err := <-errCh; err != nil {
		return nil, nil, err
	}
	sort.Strings(header)

	rows := make([][]string, 0, len(objs))
	for _, obj := range objs {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = obj[k]
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func jsonCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
