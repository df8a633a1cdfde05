package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/crime-map/internal/resolve"
)

// Config holds the full application configuration.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Alias  AliasConfig  `yaml:"alias" mapstructure:"alias"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the incident table and boundary collection and names
// their columns.
type InputConfig struct {
	Incidents        string `yaml:"incidents" mapstructure:"incidents"`
	Boundaries       string `yaml:"boundaries" mapstructure:"boundaries"`
	Sheet            string `yaml:"sheet" mapstructure:"sheet"`
	UnitColumn       string `yaml:"unit_column" mapstructure:"unit_column"`
	CategoryColumn   string `yaml:"category_column" mapstructure:"category_column"`
	CountColumn      string `yaml:"count_column" mapstructure:"count_column"`
	DistrictProperty string `yaml:"district_property" mapstructure:"district_property"`
}

// OutputConfig configures the written artifacts.
type OutputConfig struct {
	HTML    string `yaml:"html" mapstructure:"html"`
	Summary string `yaml:"summary" mapstructure:"summary"` // optional .csv/.json/.yaml district table
}

// AliasConfig selects the unit-name alias table.
type AliasConfig struct {
	Policy string `yaml:"policy" mapstructure:"policy"`
}

// MapConfig configures the rendered map.
type MapConfig struct {
	Title           string  `yaml:"title" mapstructure:"title"`
	Legend          string  `yaml:"legend" mapstructure:"legend"`
	TileURL         string  `yaml:"tile_url" mapstructure:"tile_url"`
	TileAttribution string  `yaml:"tile_attribution" mapstructure:"tile_attribution"`
	MinZoom         int     `yaml:"min_zoom" mapstructure:"min_zoom"`
	Padding         float64 `yaml:"padding" mapstructure:"padding"`
	FillOpacity     float64 `yaml:"fill_opacity" mapstructure:"fill_opacity"`
	LineOpacity     float64 `yaml:"line_opacity" mapstructure:"line_opacity"`
	NoDataColor     string  `yaml:"no_data_color" mapstructure:"no_data_color"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRIMEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.incidents", "data/telangana_ipc_2014_long.csv")
	v.SetDefault("input.boundaries", "data/telangana_districts.geojson")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.unit_column", "District")
	v.SetDefault("input.category_column", "CRIME_TYPE")
	v.SetDefault("input.count_column", "COUNT")
	v.SetDefault("input.district_property", "D_N")
	v.SetDefault("output.html", "public/crime_map.html")
	v.SetDefault("output.summary", "")
	v.SetDefault("alias.policy", string(resolve.PolicyPermissive))
	v.SetDefault("map.title", "Telangana crime map (2014)")
	v.SetDefault("map.legend", "Total crimes (2014)")
	v.SetDefault("map.tile_url", "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png")
	v.SetDefault("map.tile_attribution", `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`)
	v.SetDefault("map.min_zoom", 7)
	v.SetDefault("map.padding", 0.5)
	v.SetDefault("map.fill_opacity", 0.7)
	v.SetDefault("map.line_opacity", 0.2)
	v.SetDefault("map.no_data_color", "#bdbdbd")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration can drive a run. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []string
	if c.Input.Incidents == "" {
		errs = append(errs, "input.incidents is required")
	}
	if c.Input.Boundaries == "" {
		errs = append(errs, "input.boundaries is required")
	}
	if c.Output.HTML == "" {
		errs = append(errs, "output.html is required")
	}
	if _, err := resolve.ParsePolicy(c.Alias.Policy); err != nil {
		errs = append(errs, "alias.policy must be strict or permissive")
	}
	if c.Map.FillOpacity <= 0 || c.Map.FillOpacity > 1 {
		errs = append(errs, "map.fill_opacity must be in (0, 1]")
	}
	if c.Map.LineOpacity <= 0 || c.Map.LineOpacity > 1 {
		errs = append(errs, "map.line_opacity must be in (0, 1]")
	}
	if c.Map.Padding < 0 {
		errs = append(errs, "map.padding must be >= 0")
	}
	if c.Map.MinZoom < 0 {
		errs = append(errs, "map.min_zoom must be >= 0")
	}
	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
