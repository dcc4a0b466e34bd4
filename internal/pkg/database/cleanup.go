package database

import (
	"context"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

// Cleanup removes aggregates older than retentionDays before today.
// A retention of zero or less keeps everything.
func (db *Database) Cleanup(ctx context.Context, today civil.Date, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := today.AddDays(-retentionDays)
	tag, err := db.pool.Exec(ctx, "DELETE FROM day_aggregate WHERE date < $1::date", cutoff.String())
	if err != nil {
		return err
	}
	zap.L().Info("cleaned up aggregates", zap.Stringer("before", cutoff), zap.Int64("deleted", tag.RowsAffected()))
	return nil
}
