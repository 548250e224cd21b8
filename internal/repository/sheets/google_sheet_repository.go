package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/brooder/internal/config"
	"github.com/mamadbah2/brooder/internal/domain/models"
)

// Repository exports daily operations reports to a spreadsheet the management
// team already works from.
type Repository interface {
	AppendDailyReport(ctx context.Context, report models.DailyReport) error
}

// GoogleSheetRepository implements Repository using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	reportRange   string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		reportRange:   cfg.ReportRange,
		logger:        logger,
	}, nil
}

// AppendDailyReport appends one report row to the configured range.
func (r *GoogleSheetRepository) AppendDailyReport(ctx context.Context, report models.DailyReport) error {
	row := []interface{}{
		report.Date.Format("2006-01-02"),
		report.PendingRequests,
		report.ApprovedRequests,
		report.DispatchedRequests,
		report.TotalStock,
		report.ChickRevenue,
		report.FeedRevenue,
		report.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, r.reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row into range %s: %w", r.reportRange, err)
	}

	r.logger.Debug("daily report appended to sheet", zap.String("range", r.reportRange))
	return nil
}
