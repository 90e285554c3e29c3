package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/ledger"
	"agriscope/land-portal/land-portal-backend/internal/notifications"
	"agriscope/land-portal/land-portal-backend/internal/reports"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAlert(ctx context.Context, alert *Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockRepository) ListAlerts(ctx context.Context) ([]Alert, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Alert), args.Error(1)
}

func (m *MockRepository) ListBySeverity(ctx context.Context, severity Severity) ([]Alert, error) {
	args := m.Called(ctx, severity)
	return args.Get(0).([]Alert), args.Error(1)
}

// MockGenerator is a mock implementation of the ReportGenerator interface.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateAutomatedReport(ctx context.Context, req *reports.AutomatedReportRequest) (*reports.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.Report), args.Error(1)
}

func TestEvaluateTriggersReportPerHighSeverityAlert(t *testing.T) {
	mockRepo := new(MockRepository)
	mockGen := new(MockGenerator)

	alert := Alert{ID: uuid.New(), Type: TypeFire, Severity: SeverityHigh, Sector: "Timiș", Message: "Thermal anomaly detected"}
	mockRepo.On("ListBySeverity", mock.Anything, SeverityHigh).Return([]Alert{alert}, nil)
	mockGen.On("GenerateAutomatedReport", mock.Anything, mock.MatchedBy(func(req *reports.AutomatedReportRequest) bool {
		return req.SourceAlertID == alert.ID && req.Content == alert.Message
	})).Return(&reports.Report{ID: uuid.New(), Kind: reports.KindAutomated}, nil)

	p := NewPoller(mockRepo, mockGen, notifications.NopPublisher{}, time.Minute, zap.NewNop())
	p.Evaluate(context.Background())

	mockRepo.AssertExpectations(t)
	mockGen.AssertExpectations(t)
}

func TestEvaluateStopsWhenCreditsExhausted(t *testing.T) {
	mockRepo := new(MockRepository)
	mockGen := new(MockGenerator)

	first := Alert{ID: uuid.New(), Severity: SeverityHigh}
	second := Alert{ID: uuid.New(), Severity: SeverityHigh}
	mockRepo.On("ListBySeverity", mock.Anything, SeverityHigh).Return([]Alert{first, second}, nil)
	mockGen.On("GenerateAutomatedReport", mock.Anything, mock.Anything).Return(nil, ledger.ErrExhausted).Once()

	p := NewPoller(mockRepo, mockGen, notifications.NopPublisher{}, time.Minute, zap.NewNop())
	p.Evaluate(context.Background())

	// Exhaustion aborts the pass; the second alert is not attempted.
	mockGen.AssertNumberOfCalls(t, "GenerateAutomatedReport", 1)
}

func TestEvaluateIgnoresAlreadyReportedAlerts(t *testing.T) {
	mockRepo := new(MockRepository)
	mockGen := new(MockGenerator)

	alert := Alert{ID: uuid.New(), Severity: SeverityHigh}
	mockRepo.On("ListBySeverity", mock.Anything, SeverityHigh).Return([]Alert{alert}, nil)
	// The reports service reports an idempotent no-op as (nil, nil).
	mockGen.On("GenerateAutomatedReport", mock.Anything, mock.Anything).Return(nil, nil)

	p := NewPoller(mockRepo, mockGen, notifications.NopPublisher{}, time.Minute, zap.NewNop())
	p.Evaluate(context.Background())

	mockGen.AssertExpectations(t)
}
