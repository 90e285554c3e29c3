package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/ledger"
	"agriscope/land-portal/land-portal-backend/internal/notifications"
	"agriscope/land-portal/land-portal-backend/internal/reports"
)

// ReportGenerator is the slice of the reports service the poller needs.
type ReportGenerator interface {
	GenerateAutomatedReport(ctx context.Context, req *reports.AutomatedReportRequest) (*reports.Report, error)
}

// Poller periodically scans for high-severity alerts and triggers automated
// reports for those that have none yet. The existence check lives in the
// reports service (exact match on the source alert id), so re-evaluating the
// same alert on every tick is safe.
type Poller struct {
	repo      Repository
	generator ReportGenerator
	events    notifications.Publisher
	interval  time.Duration
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewPoller creates a poller that evaluates alerts every interval.
func NewPoller(repo Repository, generator ReportGenerator, events notifications.Publisher, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		repo:      repo,
		generator: generator,
		events:    events,
		interval:  interval,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start schedules the evaluation job and runs one evaluation immediately.
func (p *Poller) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, func() { p.Evaluate(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule alert poller: %w", err)
	}

	p.logger.Info("Alert poller starting", zap.Duration("interval", p.interval))
	p.Evaluate(ctx)
	p.cron.Start()

	return nil
}

// Stop cancels the schedule and waits for a running evaluation to finish.
func (p *Poller) Stop() {
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
	p.logger.Info("Alert poller stopped")
}

// Evaluate runs one pass over the current high-severity alerts.
func (p *Poller) Evaluate(ctx context.Context) {
	alerts, err := p.repo.ListBySeverity(ctx, SeverityHigh)
	if err != nil {
		p.logger.Error("Failed to list high-severity alerts", zap.Error(err))
		return
	}

	for _, alert := range alerts {
		report, err := p.generator.GenerateAutomatedReport(ctx, &reports.AutomatedReportRequest{
			Title:         fmt.Sprintf("Automated report: %s in %s", alert.Type, alert.Sector),
			Content:       alert.Message,
			PropertyID:    alert.PropertyID,
			SourceAlertID: alert.ID,
		})
		switch {
		case errors.Is(err, ledger.ErrExhausted), errors.Is(err, ledger.ErrNotSubscribed):
			// Business condition, not a failure: nothing to generate until
			// the user re-subscribes.
			p.logger.Warn("Automated report skipped, no credits",
				zap.String("alert_id", alert.ID.String()))
			return
		case err != nil:
			p.logger.Error("Failed to generate automated report",
				zap.String("alert_id", alert.ID.String()),
				zap.Error(err))
		case report != nil:
			p.logger.Info("Automated report generated",
				zap.String("alert_id", alert.ID.String()),
				zap.String("report_id", report.ID.String()))
		}
	}
}
