package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/config"
	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/repository/sheets"
	"github.com/mamadbah2/brooder/internal/service/reporting"
	"github.com/mamadbah2/brooder/pkg/clients/whatsapp"
)

// OverdueMarker flags feed requests whose payment due date has passed.
type OverdueMarker interface {
	MarkOverdueFeedPayments(ctx context.Context, now time.Time) (int64, error)
}

// ReportStore persists generated daily reports.
type ReportStore interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Scheduler manages the recurring background jobs: the nightly operations
// report and the overdue payment sweep.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	reportStore  ReportStore
	overdue      OverdueMarker
	sheetsRepo   sheets.Repository
	notifier     whatsapp.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. sheetsRepo and notifier may
// be nil when the corresponding integrations are not configured.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, reportStore ReportStore, overdue OverdueMarker, sheetsRepo sheets.Repository, notifier whatsapp.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		reportingSvc: reportingSvc,
		reportStore:  reportStore,
		overdue:      overdue,
		sheetsRepo:   sheetsRepo,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.Reporting.ReportCronSchedule),
		zap.String("overdue_schedule", s.cfg.Reporting.OverdueCronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.ReportCronSchedule, s.runDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Reporting.OverdueCronSchedule, s.runOverdueSweep); err != nil {
		s.logger.Error("failed to schedule overdue payment sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.BuildDailyReport(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to build daily report", zap.Error(err))
		return
	}

	if err := s.reportStore.SaveDailyReport(ctx, *report); err != nil {
		s.logger.Error("failed to save daily report", zap.Error(err))
		return
	}

	if s.sheetsRepo != nil {
		if err := s.sheetsRepo.AppendDailyReport(ctx, *report); err != nil {
			s.logger.Error("failed to export daily report to sheet", zap.Error(err))
		}
	}

	if s.notifier != nil && s.cfg.WhatsApp.ManagerID != "" {
		msg := whatsapp.SendTextMessageRequest{
			To:   s.cfg.WhatsApp.ManagerID,
			Body: formatReportSummary(*report),
		}
		if _, err := s.notifier.SendTextMessage(ctx, msg); err != nil {
			s.logger.Error("failed to send daily report summary", zap.Error(err))
		}
	}

	s.logger.Info("daily report completed", zap.Time("date", report.Date))
}

func (s *Scheduler) runOverdueSweep() {
	s.logger.Info("running overdue payment sweep")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	marked, err := s.overdue.MarkOverdueFeedPayments(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("overdue payment sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("overdue payment sweep completed", zap.Int64("marked", marked))
}

func formatReportSummary(r models.DailyReport) string {
	return fmt.Sprintf(
		"Daily report %s\nPending: %d\nApproved: %d\nDispatched: %d\nStock on hand: %d\nChick revenue: %.0f\nFeed revenue: %.0f",
		r.Date.Format("2006-01-02"),
		r.PendingRequests, r.ApprovedRequests, r.DispatchedRequests,
		r.TotalStock, r.ChickRevenue, r.FeedRevenue,
	)
}
