package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/telangana_ipc_2014_long.csv", cfg.Input.Incidents)
	assert.Equal(t, "data/telangana_districts.geojson", cfg.Input.Boundaries)
	assert.Equal(t, "District", cfg.Input.UnitColumn)
	assert.Equal(t, "CRIME_TYPE", cfg.Input.CategoryColumn)
	assert.Equal(t, "COUNT", cfg.Input.CountColumn)
	assert.Equal(t, "D_N", cfg.Input.DistrictProperty)
	assert.Empty(t, cfg.Input.Sheet)
	assert.Equal(t, "public/crime_map.html", cfg.Output.HTML)
	assert.Empty(t, cfg.Output.Summary)
	assert.Equal(t, "permissive", cfg.Alias.Policy)
	assert.Equal(t, 7, cfg.Map.MinZoom)
	assert.InDelta(t, 0.5, cfg.Map.Padding, 0.001)
	assert.InDelta(t, 0.7, cfg.Map.FillOpacity, 0.001)
	assert.InDelta(t, 0.2, cfg.Map.LineOpacity, 0.001)
	assert.Equal(t, "Total crimes (2014)", cfg.Map.Legend)
	assert.Equal(t, "#bdbdbd", cfg.Map.NoDataColor)
	assert.Contains(t, cfg.Map.TileURL, "cartocdn.com")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	yaml := `
input:
  incidents: ipc.xlsx
  sheet: IPC
alias:
  policy: strict
map:
  min_zoom: 6
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ipc.xlsx", cfg.Input.Incidents)
	assert.Equal(t, "IPC", cfg.Input.Sheet)
	assert.Equal(t, "strict", cfg.Alias.Policy)
	assert.Equal(t, 6, cfg.Map.MinZoom)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "data/telangana_districts.geojson", cfg.Input.Boundaries)
	assert.InDelta(t, 0.7, cfg.Map.FillOpacity, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	yaml := `
alias:
  policy: strict
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CRIMEMAP_ALIAS_POLICY", "permissive")
	t.Setenv("CRIMEMAP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "permissive", cfg.Alias.Policy)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	t.Setenv("CRIMEMAP_OUTPUT_HTML", "out/map.html")
	t.Setenv("CRIMEMAP_MAP_PADDING", "1.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "out/map.html", cfg.Output.HTML)
	assert.InDelta(t, 1.25, cfg.Map.Padding, 0.001)
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("input: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Input.Incidents = "ipc.csv"
	cfg.Input.Boundaries = "districts.geojson"
	cfg.Output.HTML = "map.html"
	cfg.Alias.Policy = "permissive"
	cfg.Map.MinZoom = 7
	cfg.Map.Padding = 0.5
	cfg.Map.FillOpacity = 0.7
	cfg.Map.LineOpacity = 0.2
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingPaths(t *testing.T) {
	cfg := validDefaults()
	cfg.Input.Incidents = ""
	cfg.Input.Boundaries = ""
	cfg.Output.HTML = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input.incidents is required")
	assert.Contains(t, err.Error(), "input.boundaries is required")
	assert.Contains(t, err.Error(), "output.html is required")
}

func TestValidate_UnknownPolicy(t *testing.T) {
	cfg := validDefaults()
	cfg.Alias.Policy = "fuzzy"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "alias.policy")
}

func TestValidate_PolicyCaseInsensitive(t *testing.T) {
	cfg := validDefaults()
	cfg.Alias.Policy = "STRICT"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_OpacityBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Map.FillOpacity = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "map.fill_opacity")

	cfg.Map.FillOpacity = 1.5
	assert.Error(t, cfg.Validate())

	cfg.Map.FillOpacity = 1
	cfg.Map.LineOpacity = -0.1
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "map.line_opacity")
}

func TestValidate_NegativePadding(t *testing.T) {
	cfg := validDefaults()
	cfg.Map.Padding = -1

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "map.padding must be >= 0")

	cfg.Map.Padding = 0
	assert.NoError(t, cfg.Validate())
}
