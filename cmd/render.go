package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crime-map/internal/pipeline"
)

var (
	renderOut     string
	renderSummary string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build the choropleth map and report unmatched units",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if renderOut != "" {
			cfg.Output.HTML = renderOut
		}
		if renderSummary != "" {
			cfg.Output.Summary = renderSummary
		}
		if err := applyInputFlags(); err != nil {
			return err
		}

		res, err := pipeline.New(cfg).Run(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "render")
		}
		return pipeline.Report(cmd.OutOrStdout(), res)
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output HTML path; overrides output.html")
	renderCmd.Flags().StringVar(&renderSummary, "summary", "", "also export the district table (.csv, .json or .yaml); overrides output.summary")
	rootCmd.AddCommand(renderCmd)
}
