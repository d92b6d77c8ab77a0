package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/healthmap/internal/config"
	"github.com/sells-group/healthmap/internal/healthdata"
	"github.com/sells-group/healthmap/internal/metric"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and join the data, then print the join report and national averages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context(), cfg, cmd.OutOrStdout(), checkJSON)
	},
}

type checkReport struct {
	Report   healthdata.JoinReport `json:"report"`
	National map[string]*float64   `json:"national"`
}

func runCheck(ctx context.Context, c *config.Config, w io.Writer, asJSON bool) error {
	if err := c.Validate("check"); err != nil {
		return err
	}
	ds, err := loadDataset(ctx, c)
	if err != nil {
		return err
	}

	if asJSON {
		out := checkReport{
			Report:   ds.Geography.Report,
			National: make(map[string]*float64, metric.Count),
		}
		for _, k := range metric.Keys {
			var v *float64
			if r := ds.National.Get(k); r.Valid {
				v = &r.Value
			}
			out.National[k.Field()] = v
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rep := ds.Geography.Report
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Boundaries\t%d\n", rep.Boundaries)
	fmt.Fprintf(tw, "Rows\t%d\n", rep.Rows)
	fmt.Fprintf(tw, "Matched\t%d\n", rep.Matched)
	fmt.Fprintf(tw, "Unmatched boundaries\t%d\n", rep.UnmatchedBoundaries)
	fmt.Fprintf(tw, "Unmatched rows\t%d\n", rep.UnmatchedRows)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Indicator\tNational average")
	for _, k := range metric.Keys {
		r := ds.National.Get(k)
		if !r.Valid {
			fmt.Fprintf(tw, "%s\tno data\n", k.Label())
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2f\n", k.Label(), r.Value)
	}
	return tw.Flush()
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(checkCmd)
}
