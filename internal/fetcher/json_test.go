package fetcher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamJSONRecords(t *testing.T) {
	input := `[{"cnty_fips":"01001","percent_stroke":4.50},{"cnty_fips":"48453","percent_stroke":null,"flag":true}]`

	ch, errCh := StreamJSONRecords(context.Background(), strings.NewReader(input))

	var records []map[string]string
	for rec := range ch {
		records = append(records, rec)
	}
	for err := range errCh {
		require.NoError(t, err)
	}

	require.Len(t, records, 2)
	assert.Equal(t, map[string]string{"cnty_fips": "01001", "percent_stroke": "4.50"}, records[0])
	assert.Equal(t, map[string]string{"cnty_fips": "48453", "percent_stroke": "", "flag": ""}, records[1])
}

func TestReadJSONRecords(t *testing.T) {
	input := `[
	  {"name":"Travis","fips":"48453","value":31},
	  {"fips":"22001","extra":"x"}
	]`

	header, rows, err := ReadJSONRecords(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"extra", "fips", "name", "value"}, header)
	assert.Equal(t, [][]string{
		{"", "48453", "Travis", "31"},
		{"x", "22001", "", ""},
	}, rows)
}

func TestReadJSONRecords_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "[]"} {
		header, rows, err := ReadJSONRecords(context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		assert.Empty(t, header)
		assert.Empty(t, rows)
	}
}

func TestStreamJSONRecords_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := range 10000 {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"id":1,"name":"test"}`)
	}
	sb.WriteString("]")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	ch, errCh := StreamJSONRecords(ctx, strings.NewReader(sb.String()))

	for range ch { //nolint:revive // drain
	}

	var gotErr error
	for err := range errCh {
		if err != nil {
			gotErr = err
		}
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "context")
}

func TestReadJSONRecords_InvalidFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"object not array", `{"id":1}`, "expected '['"},
		{"scalar element", `[{"id":1}, 7]`, "decode record 1"},
		{"truncated", `[{"id":1}`, "json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSONRecords(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
