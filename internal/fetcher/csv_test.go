package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func TestStreamCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  CSVOptions
		want  [][]string
	}{
		{
			name:  "plain",
			input: "cnty_fips,percent_stroke\n48453,3.1\n",
			want:  [][]string{{"cnty_fips", "percent_stroke"}, {"48453", "3.1"}},
		},
		{
			name:  "pipe delimited",
			input: "a|b\n1|2\n",
			opts:  CSVOptions{Delimiter: '|'},
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "trim space",
			input: " 01001 , 12.5 \n",
			opts:  CSVOptions{TrimSpace: true},
			want:  [][]string{{"01001", "12.5"}},
		},
		{
			name:  "comments",
			input: "# generated\na,b\n# note\n1,2\n",
			opts:  CSVOptions{Comment: '#'},
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "variable field counts",
			input: "a,b,c\n1,2\n",
			want:  [][]string{{"a", "b", "c"}, {"1", "2"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(tt.input), tt.opts)
			rows, err := collectRows(t, rowCh, errCh)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestStreamCSV_HeaderChannel(t *testing.T) {
	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader("name,age\nalice,30\n"), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"alice", "30"}}, rows)
	assert.Equal(t, []string{"name", "age"}, <-headerCh)
}

func TestStreamCSV_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	for range 10000 {
		sb.WriteString("a,b,c\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rowCh, errCh := StreamCSV(ctx, strings.NewReader(sb.String()), CSVOptions{})

	count := 0
	for range rowCh {
		count++
		if count == 5 {
			cancel()
		}
	}

	var gotErr error
	for err := range errCh {
		gotErr = err
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "context cancelled")
	assert.Less(t, count, 10000)
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffcnty_fips , display_name,percent_stroke\n48453,\"Travis, TX\",3.1\n01001,Autauga,\n"

	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"cnty_fips", "display_name", "percent_stroke"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"48453", "Travis, TX", "3.1"}, rows[0])
	assert.Equal(t, []string{"01001", "Autauga", ""}, rows[1])
}

func TestReadCSV_NoHeader(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}
