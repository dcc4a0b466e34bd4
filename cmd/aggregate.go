package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/config"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/publisher"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/source"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/tou"
)

// prepare loads the config, installs the global logger and builds the engine.
func prepare(ctx *cli.Context) (*config.Config, *tou.Engine, func(), error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	engine, err := cfg.TariffCfg.Engine()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, engine, func() { _ = logger.Sync() }, nil
}

// AggregateCommand aggregates one day and writes the result as JSON.
func AggregateCommand(ctx *cli.Context) error {
	cfg, engine, flush, err := prepare(ctx)
	if err != nil {
		return err
	}
	defer flush()

	d, err := dateFlag(ctx, "date", cfg)
	if err != nil {
		return err
	}
	readings, err := readingsFor(ctx.Context, ctx.String("file"), ctx.App.Reader, sourceFromConfig(cfg), d)
	if err != nil {
		return err
	}

	agg, err := engine.ComputeDay(d, readings)
	if err != nil {
		return err
	}

	if ctx.Bool("publish") {
		db, err := setupPublishers(ctx.Context, cfg)
		if db != nil {
			defer db.Close()
		}
		if err != nil {
			return err
		}
		if err := publisher.Publish(ctx.Context, agg); err != nil {
			return err
		}
	}
	return writeJSON(ctx.App.Writer, agg)
}

// BackfillCommand aggregates a range of days from the source directory in parallel.
func BackfillCommand(ctx *cli.Context) error {
	cfg, engine, flush, err := prepare(ctx)
	if err != nil {
		return err
	}
	defer flush()

	src := sourceFromConfig(cfg)
	if src == nil {
		return errNoSource
	}
	from, err := dateFlag(ctx, "from", cfg)
	if err != nil {
		return err
	}
	to, err := dateFlag(ctx, "to", cfg)
	if err != nil {
		return err
	}
	if from.After(to) {
		return fmt.Errorf("--from %s is after --to %s", from, to)
	}
	workers := cfg.SourceCfg.Workers
	if ctx.IsSet("workers") {
		workers = ctx.Int("workers")
	}

	aggs, err := backfill(ctx.Context, engine, src, tou.DateRange(from, to), workers)
	if err != nil {
		return err
	}
	zap.L().Info("backfill complete", zap.Stringer("from", from), zap.Stringer("to", to), zap.Int("days", len(aggs)))

	if ctx.Bool("publish") {
		db, err := setupPublishers(ctx.Context, cfg)
		if db != nil {
			defer db.Close()
		}
		if err != nil {
			return err
		}
		if err := publisher.PublishAll(ctx.Context, aggs); err != nil {
			return err
		}
	}
	return writeJSON(ctx.App.Writer, aggs)
}

// backfill skips days without a readings file rather than reporting them as zero.
func backfill(ctx context.Context, engine *tou.Engine, src Source, dates []civil.Date, workers int) (model.DayAggregates, error) {
	var missing sync.Map
	load := func(ctx context.Context, d civil.Date) ([]model.IntervalReading, error) {
		readings, err := src.Load(ctx, d)
		if errors.Is(err, source.ErrNoReadings) {
			zap.L().Warn("no readings, skipping day", zap.Stringer("date", d))
			missing.Store(d.String(), struct{}{})
			return nil, nil
		}
		return readings, err
	}

	aggs, err := engine.ComputeMany(ctx, dates, load, workers)
	if err != nil {
		return nil, err
	}
	return lo.Filter(aggs, func(agg model.DayAggregate, _ int) bool {
		_, skipped := missing.Load(agg.Date)
		return !skipped
	}), nil
}

// readingsFor reads from file ("-" for stdin) when given, else from the source.
func readingsFor(ctx context.Context, file string, stdin io.Reader, src Source, d civil.Date) ([]model.IntervalReading, error) {
	switch {
	case file == "-":
		return source.Parse(stdin)
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return source.Parse(f)
	case src != nil:
		return src.Load(ctx, d)
	default:
		return nil, errNoSource
	}
}

// dateFlag parses a YYYY-MM-DD flag, defaulting to yesterday in the tariff location.
func dateFlag(ctx *cli.Context, name string, cfg *config.Config) (civil.Date, error) {
	if v := ctx.String(name); v != "" {
		return tou.ParseDate(v)
	}
	loc, err := cfg.TariffCfg.TimeLocation()
	if err != nil {
		return civil.Date{}, err
	}
	return yesterday(time.Now(), loc), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
