package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crime-map/internal/district"
	"github.com/sells-group/crime-map/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [path]",
	Short: "Export the joined district table as CSV, JSON or YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Output.Summary
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return eris.New("summary path is required (argument or CRIMEMAP_OUTPUT_SUMMARY)")
		}
		if err := applyInputFlags(); err != nil {
			return err
		}

		res, err := pipeline.New(cfg).Match(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "summary")
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return eris.Wrap(err, "summary: resolve path")
		}
		if err := district.Export(abs, res.Join); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Summary: %s\n", abs)
		return err
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
