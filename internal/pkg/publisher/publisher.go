package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	mu                  sync.RWMutex
	registerdPublishers = make(map[string]publisher)
	published           sync.Map
)

type publisher interface {
	// Write stores or forwards one daily aggregate.
	Write(ctx context.Context, agg model.DayAggregate) error
}

func RegisterPublisher(name string, publisher publisher) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registerdPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registerdPublishers[name] = publisher
	return nil
}

// Registered lists the publisher names in order.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := lo.Keys(registerdPublishers)
	slices.Sort(names)
	return names
}

// Publish writes the aggregate to every registered publisher. An aggregate
// identical to the last one published for its date is skipped. A failing
// publisher is logged and does not stop the others; its error is returned
// once all have been tried and the aggregate stays eligible for a retry.
func Publish(ctx context.Context, agg model.DayAggregate) error {
	b, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	fingerprint := string(b)
	if !shouldUpdate(agg.Date, fingerprint) {
		zap.L().Debug("aggregate unchanged", zap.String("date", agg.Date))
		return nil
	}

	mu.RLock()
	defer mu.RUnlock()
	var errs []error
	for name, publisher := range registerdPublishers {
		if err := publisher.Write(ctx, agg); err != nil {
			zap.L().Error("failed to publish aggregate", zap.Error(err), zap.String("publisher", name), zap.String("date", agg.Date))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		zap.L().Debug("published aggregate", zap.String("date", agg.Date), zap.String("publisher", name))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	published.Store(agg.Date, fingerprint)
	return nil
}

// PublishAll publishes each aggregate in turn and returns every failure.
func PublishAll(ctx context.Context, aggs model.DayAggregates) error {
	var errs []error
	for _, agg := range aggs {
		if err := Publish(ctx, agg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func shouldUpdate(date, fingerprint string) bool {
	old, exists := published.Load(date)
	if exists && old.(string) == fingerprint {
		return false
	}
	if !exists {
		zap.L().Info("new aggregate", zap.String("date", date))
	} else {
		zap.L().Info("aggregate changed", zap.String("date", date))
	}
	return true
}
