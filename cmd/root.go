package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/config"
)

var cfg *config.Config

// Flag overrides shared by every subcommand. Empty means keep the config value.
var (
	incidentsPath  string
	boundariesPath string
	aliasPolicy    string
)

var rootCmd = &cobra.Command{
	Use:   "crime-map",
	Short: "Crime incident choropleth builder",
	Long:  "Joins a crime incident table to district boundaries, aggregates per-district totals and top categories, and renders a self-contained Leaflet choropleth.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// applyInputFlags copies the shared flag overrides into cfg and validates
// the result.
func applyInputFlags() error {
	if incidentsPath != "" {
		cfg.Input.Incidents = incidentsPath
	}
	if boundariesPath != "" {
		cfg.Input.Boundaries = boundariesPath
	}
	if aliasPolicy != "" {
		cfg.Alias.Policy = aliasPolicy
	}
	return cfg.Validate()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&incidentsPath, "incidents", "", "incident table (.csv, .tsv or .xlsx, local, URL or .zip); overrides input.incidents")
	rootCmd.PersistentFlags().StringVar(&boundariesPath, "boundaries", "", "district boundaries (.geojson or .shp, local, URL or .zip); overrides input.boundaries")
	rootCmd.PersistentFlags().StringVar(&aliasPolicy, "policy", "", "alias policy: strict or permissive; overrides alias.policy")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
