package cmd

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/contxt"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/publisher"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/tou"
)

const jobTimeout = 2 * time.Minute

// yesterday is the last complete day at now in loc.
func yesterday(now time.Time, loc *time.Location) civil.Date {
	return civil.DateOf(now.In(loc)).AddDays(-1)
}

func cronSpec(loc *time.Location, schedule string) string {
	return fmt.Sprintf("CRON_TZ=%s %s", loc, schedule)
}

// aggregateAndPublish computes one day from the source and hands it to the publishers.
func aggregateAndPublish(ctx context.Context, engine *tou.Engine, src Source, d civil.Date) (model.DayAggregate, error) {
	readings, err := src.Load(ctx, d)
	if err != nil {
		return model.DayAggregate{}, err
	}
	agg, err := engine.ComputeDay(d, readings)
	if err != nil {
		return model.DayAggregate{}, err
	}
	if err := publisher.Publish(ctx, agg); err != nil {
		return agg, err
	}
	return agg, nil
}

func report(ctx context.Context, errChan chan error, err error) {
	select {
	case errChan <- err:
	case <-ctx.Done():
	}
}

// runCron starts the scheduler and blocks until ctx is done.
func runCron(ctx context.Context, c *cron.Cron) error {
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func cronAggregate(ctx context.Context, schedule string, loc *time.Location, engine *tou.Engine, src Source, errChan chan error) error {
	c := cron.New()
	if _, err := c.AddFunc(cronSpec(loc, schedule), func() {
		jobCtx, cancel := contxt.NewContext(ctx, jobTimeout)
		defer cancel()

		d := yesterday(time.Now(), loc)
		agg, err := aggregateAndPublish(jobCtx, engine, src, d)
		if err != nil {
			zap.L().Error("scheduled aggregation failed", zap.Error(err), zap.Stringer("date", d))
			report(ctx, errChan, fmt.Errorf("aggregate %s: %w", d, err))
			return
		}
		zap.L().Info("scheduled aggregation", zap.String("date", agg.Date), zap.Bool("tou_date", agg.TouDate), zap.Float64("total", agg.Consumption.Total))
	}); err != nil {
		return err
	}

	return runCron(ctx, c)
}

func cronDbCleanup(ctx context.Context, loc *time.Location, store Store, retentionDays int, errChan chan error) error {
	if err := store.Cleanup(ctx, civil.DateOf(time.Now().In(loc)), retentionDays); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(cronSpec(loc, "0 3 * * *"), func() {
		jobCtx, cancel := contxt.NewContext(ctx, jobTimeout)
		defer cancel()

		if err := store.Cleanup(jobCtx, civil.DateOf(time.Now().In(loc)), retentionDays); err != nil {
			zap.L().Error("error cleaning up database", zap.Error(err))
			report(ctx, errChan, fmt.Errorf("%w: %v", errCron, err))
			return
		}
	}); err != nil {
		return err
	}

	return runCron(ctx, c)
}
