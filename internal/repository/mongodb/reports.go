package mongodb

import (
	"context"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// SaveDailyReport stores the nightly operations snapshot.
func (r *Repository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.db.Collection(collDailyReports).InsertOne(ctx, report); err != nil {
		return r.fail("insert daily report", err)
	}
	return nil
}
