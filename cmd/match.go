package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crime-map/internal/pipeline"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show how incident units line up with boundary districts",
	Long:  "Loads, normalises, aggregates and joins the inputs without rendering. Lists matched districts, districts without data and incident units with no district.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := applyInputFlags(); err != nil {
			return err
		}

		res, err := pipeline.New(cfg).Match(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "match")
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), pipeline.FormatMatch(res)); err != nil {
			return eris.Wrap(err, "match: write output")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
