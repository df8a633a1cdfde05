// Package pipeline runs the load, normalise, aggregate, join and render
// phases that turn an incident table and a boundary file into a map.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/crime-map/internal/boundary"
	"github.com/sells-group/crime-map/internal/choropleth"
	"github.com/sells-group/crime-map/internal/config"
	"github.com/sells-group/crime-map/internal/district"
	"github.com/sells-group/crime-map/internal/fetcher"
	"github.com/sells-group/crime-map/internal/incident"
	"github.com/sells-group/crime-map/internal/model"
	"github.com/sells-group/crime-map/internal/resolve"
)

// PhaseResult records the outcome of one phase.
type PhaseResult struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
}

// Result is what a run produced.
type Result struct {
	RunID    string
	Records  int // incident rows kept after Total filtering
	Join     district.JoinResult
	Document *choropleth.Document
	Output   string // absolute path of the written map, empty for Match
	Summary  string // absolute path of the exported table, if any
	Phases   []PhaseResult
}

// Pipeline orchestrates a single batch run.
type Pipeline struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
}

// New creates a Pipeline for cfg. cfg is assumed validated.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, fetcher: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})}
}

// WithFetcher replaces the fetcher used for remote inputs.
func (p *Pipeline) WithFetcher(f fetcher.Fetcher) *Pipeline {
	p.fetcher = f
	return p
}

// Match loads both inputs, aggregates the incidents and joins them onto the
// boundaries without rendering anything.
func (p *Pipeline) Match(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New().String()}
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", res.RunID))
	track := tracker(log, res)

	policy, err := resolve.ParsePolicy(p.cfg.Alias.Policy)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: alias policy")
	}
	table, err := resolve.TableFor(policy)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: alias table")
	}

	workDir, err := os.MkdirTemp("", "crime-map-*")
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create work dir")
	}
	defer os.RemoveAll(workDir) //nolint:errcheck

	var incidentsPath, boundariesPath string
	if err := track(ctx, "resolve_inputs", func() error {
		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var rErr error
			incidentsPath, rErr = fetcher.Resolve(gCtx, p.fetcher, p.cfg.Input.Incidents, workDir)
			return rErr
		})
		g.Go(func() error {
			var rErr error
			boundariesPath, rErr = fetcher.Resolve(gCtx, p.fetcher, p.cfg.Input.Boundaries, workDir)
			return rErr
		})
		return g.Wait()
	}); err != nil {
		return nil, err
	}

	var records []model.IncidentRecord
	if err := track(ctx, "load_incidents", func() error {
		records, err = incident.Load(incidentsPath, incident.Options{
			UnitColumn:     p.cfg.Input.UnitColumn,
			CategoryColumn: p.cfg.Input.CategoryColumn,
			CountColumn:    p.cfg.Input.CountColumn,
			Sheet:          p.cfg.Input.Sheet,
		})
		return err
	}); err != nil {
		return nil, err
	}
	res.Records = len(records)

	var polygons []model.DistrictPolygon
	if err := track(ctx, "load_boundaries", func() error {
		polygons, err = boundary.Load(boundariesPath, boundary.Options{
			NameProperty: p.cfg.Input.DistrictProperty,
		})
		return err
	}); err != nil {
		return nil, err
	}

	var summaries []model.DistrictSummary
	if err := track(ctx, "aggregate", func() error {
		summaries = district.Aggregate(district.Tag(records, table))
		return nil
	}); err != nil {
		return nil, err
	}

	if err := track(ctx, "join", func() error {
		res.Join = district.Join(district.KeyPolygons(polygons, resolve.BoundarySpellings()), summaries)
		return nil
	}); err != nil {
		return nil, err
	}

	log.Info("pipeline: districts joined",
		zap.String("policy", string(policy)),
		zap.Int("records", res.Records),
		zap.Int("districts", len(res.Join.Districts)),
		zap.Int("matched", len(res.Join.Matched())),
		zap.Int("unmatched", len(res.Join.Unmatched)),
	)
	return res, nil
}

// Run performs Match, then renders and writes the map and the optional
// summary table.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res, err := p.Match(ctx)
	if err != nil {
		return nil, err
	}
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", res.RunID))
	track := tracker(log, res)

	if err := track(ctx, "render", func() error {
		res.Document, err = choropleth.Build(res.Join.Districts, p.mapOptions())
		return err
	}); err != nil {
		return nil, err
	}

	out, err := filepath.Abs(p.cfg.Output.HTML)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: resolve output path")
	}
	if err := track(ctx, "write", func() error {
		return choropleth.WriteFile(out, res.Document)
	}); err != nil {
		return nil, err
	}
	res.Output = out

	if p.cfg.Output.Summary != "" {
		summary, err := filepath.Abs(p.cfg.Output.Summary)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: resolve summary path")
		}
		if err := track(ctx, "export", func() error {
			return district.Export(summary, res.Join)
		}); err != nil {
			return nil, err
		}
		res.Summary = summary
	}
	return res, nil
}

func (p *Pipeline) mapOptions() choropleth.Options {
	m := p.cfg.Map
	opts := choropleth.DefaultOptions()
	if m.Title != "" {
		opts.Title = m.Title
	}
	if m.Legend != "" {
		opts.Caption = m.Legend
	}
	if m.TileURL != "" {
		opts.Tiles.URL = m.TileURL
		opts.Tiles.Attribution = m.TileAttribution
	}
	if m.NoDataColor != "" {
		opts.Style.NoDataColor = m.NoDataColor
	}
	opts.MinZoom = m.MinZoom
	opts.Padding = m.Padding
	opts.Style.FillOpacity = m.FillOpacity
	opts.Style.LineOpacity = m.LineOpacity
	return opts
}

// tracker returns a helper that times a phase, logs it and appends it to
// res.Phases. Cancellation is checked before each phase starts.
func tracker(log *zap.Logger, res *Result) func(context.Context, string, func() error) error {
	return func(ctx context.Context, name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "pipeline: %s", name)
		}
		start := time.Now()
		fnErr := fn()
		phase := PhaseResult{Name: name, Duration: time.Since(start).Milliseconds()}
		if fnErr != nil {
			phase.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", phase.Duration),
				zap.Error(fnErr),
			)
		} else {
			log.Debug("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", phase.Duration),
			)
		}
		res.Phases = append(res.Phases, phase)
		return fnErr
	}
}
