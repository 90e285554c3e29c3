package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/ledger"
	"agriscope/land-portal/land-portal-backend/internal/notifications"
	"agriscope/land-portal/land-portal-backend/internal/pricing"
)

// Service owns report generation and the subscription lifecycle around it.
// Every generated report costs exactly one ledger credit; a report record is
// never created without a successful decrement.
type Service struct {
	repo    Repository
	ledger  *ledger.Ledger
	pricing pricing.Table
	events  notifications.Publisher
	logger  *zap.Logger
}

// NewService creates a new reports service.
func NewService(repo Repository, led *ledger.Ledger, table pricing.Table, events notifications.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		ledger:  led,
		pricing: table,
		events:  events,
		logger:  logger,
	}
}

// Quote prices a tier for a declared area. Pure lookup, no side effects.
func (s *Service) Quote(tier pricing.Tier, areaHa float64) (float64, error) {
	return s.pricing.Quote(tier, areaHa)
}

// Subscription returns the current ledger snapshot.
func (s *Service) Subscription() ledger.State {
	return s.ledger.State()
}

// Activate subscribes to a tier and refills the credit balance to the
// tier's quota.
func (s *Service) Activate(ctx context.Context, tier pricing.Tier) (ledger.State, error) {
	quota, err := s.pricing.Quota(tier)
	if err != nil {
		return ledger.State{}, err
	}

	state, err := s.ledger.Activate(ctx, tier, quota)
	if err != nil {
		return ledger.State{}, fmt.Errorf("failed to activate package: %w", err)
	}

	s.events.Publish(notifications.Event{Type: notifications.EventLedgerUpdated, Payload: state})

	return state, nil
}

// RequestManualReport spends one credit and appends a manual report record.
// Returns ledger.ErrExhausted or ledger.ErrNotSubscribed as denial signals;
// the caller redirects the user toward re-subscription.
func (s *Service) RequestManualReport(ctx context.Context, req *ManualReportRequest) (*Report, error) {
	return s.generate(ctx, &Report{
		ID:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		Kind:       KindManual,
		PropertyID: req.PropertyID,
		CreatedAt:  time.Now().UTC(),
	})
}

// GenerateAutomatedReport appends an automated report for a high-severity
// alert. Idempotent per alert: if the alert already produced a report the
// call is a no-op returning (nil, nil), so the poller can re-evaluate the
// same alert on every tick. With zero credits the report is not created and
// exhaustion is signalled to the caller.
func (s *Service) GenerateAutomatedReport(ctx context.Context, req *AutomatedReportRequest) (*Report, error) {
	exists, err := s.repo.HasReportForAlert(ctx, req.SourceAlertID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing reports: %w", err)
	}
	if exists {
		return nil, nil
	}

	alertID := req.SourceAlertID
	return s.generate(ctx, &Report{
		ID:            uuid.New(),
		Title:         req.Title,
		Content:       req.Content,
		Kind:          KindAutomated,
		PropertyID:    req.PropertyID,
		SourceAlertID: &alertID,
		CreatedAt:     time.Now().UTC(),
	})
}

func (s *Service) generate(ctx context.Context, report *Report) (*Report, error) {
	state, err := s.ledger.Consume(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		// The credit is already spent; surface the failure rather than
		// fabricating a refund transition the ledger does not have.
		s.logger.Error("Report append failed after credit decrement",
			zap.String("report_id", report.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Report generated",
		zap.String("report_id", report.ID.String()),
		zap.String("kind", string(report.Kind)),
		zap.Int("credits_remaining", state.CreditsRemaining))

	s.events.Publish(notifications.Event{Type: notifications.EventReportCreated, Payload: report})
	s.events.Publish(notifications.Event{Type: notifications.EventLedgerUpdated, Payload: state})

	return report, nil
}

// ListReports returns report history, optionally filtered by property.
func (s *Service) ListReports(ctx context.Context, propertyID *uuid.UUID) ([]Report, error) {
	return s.repo.ListReports(ctx, propertyID)
}
