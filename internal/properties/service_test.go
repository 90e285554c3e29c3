package properties

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
	"agriscope/land-portal/land-portal-backend/internal/overlay"
	"agriscope/land-portal/land-portal-backend/internal/sketch"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProperty(ctx context.Context, property *Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockRepository) GetProperty(ctx context.Context, id uuid.UUID) (*Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Property), args.Error(1)
}

func (m *MockRepository) ListProperties(ctx context.Context) ([]Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) UpdateProperty(ctx context.Context, property *Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockRepository) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var drawnSquare = []geometry.Vertex{
	{Lat: 45.75, Lng: 21.23},
	{Lat: 45.75, Lng: 21.25},
	{Lat: 45.77, Lng: 21.25},
	{Lat: 45.77, Lng: 21.23},
}

func TestCreatePropertyFinalizesPolygon(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, DefaultCropValues(), zap.NewNop())

	mockRepo.On("CreateProperty", mock.Anything, mock.MatchedBy(func(p *Property) bool {
		return len(p.Ring) == 5 && // ring was closed
			p.Ring[0] == p.Ring[4] &&
			p.AxisOrder == overlay.AxisOrderLngLat &&
			p.AreaHa > 0
	})).Return(nil)

	property, err := svc.CreateProperty(context.Background(), &CreatePropertyRequest{
		Name:        "North field",
		CropType:    "wheat",
		Coordinates: drawnSquare,
	})
	assert.NoError(t, err)
	assert.Equal(t, geometry.AreaHa(drawnSquare), property.AreaHa)
	assert.InDelta(t, 45.76, property.CenterLat, 1e-9)
	assert.InDelta(t, 21.24, property.CenterLng, 1e-9)
	assert.Equal(t, property.AreaHa*5000, property.EstimatedValue)

	mockRepo.AssertExpectations(t)
}

func TestCreatePropertyRejectsIncompletePolygon(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, DefaultCropValues(), zap.NewNop())

	_, err := svc.CreateProperty(context.Background(), &CreatePropertyRequest{
		Name:        "Sliver",
		CropType:    "corn",
		Coordinates: drawnSquare[:2],
	})
	assert.ErrorIs(t, err, sketch.ErrTooFewVertices)

	mockRepo.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything)
}

func TestPreviewPolygon(t *testing.T) {
	svc := NewService(new(MockRepository), DefaultCropValues(), zap.NewNop())

	incomplete := svc.PreviewPolygon(drawnSquare[:2], "wheat")
	assert.False(t, incomplete.Complete)
	assert.Equal(t, 0.0, incomplete.AreaHa)
	assert.NotNil(t, incomplete.Center)

	empty := svc.PreviewPolygon(nil, "wheat")
	assert.Nil(t, empty.Center)

	full := svc.PreviewPolygon(drawnSquare, "vineyard")
	assert.True(t, full.Complete)
	assert.Greater(t, full.AreaHa, 0.0)
	assert.Equal(t, full.AreaHa*9500, full.AreaPrice)
}

func TestOverlaysMixedFormats(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, DefaultCropValues(), zap.NewNop())

	mockRepo.On("ListProperties", mock.Anything).Return([]Property{
		{Name: "geojson", Geometry: `{"type":"Polygon","coordinates":[[[21.23,45.75],[21.25,45.75],[21.25,45.77],[21.23,45.75]]]}`},
		{Name: "legacy pairs", Geometry: `[[21.2,45.7],[21.3,45.8],[21.4,45.9]]`},
		{Name: "broken", Geometry: `not json at all`},
	}, nil)

	overlays, err := svc.Overlays(context.Background())
	assert.NoError(t, err)
	assert.Len(t, overlays, 2)
	assert.Equal(t, "geojson", overlays[0].Name)
	assert.Equal(t, geometry.Vertex{Lat: 45.75, Lng: 21.23}, overlays[0].Ring[0])
	assert.Equal(t, "legacy pairs", overlays[1].Name)
	assert.Equal(t, geometry.Vertex{Lat: 45.7, Lng: 21.2}, overlays[1].Ring[0])
}

func TestUpdatePropertyRevaluesOnCropChange(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, DefaultCropValues(), zap.NewNop())

	id := uuid.New()
	existing := &Property{ID: id, Name: "Old", CropType: "wheat", AreaHa: 10, EstimatedValue: 50000}
	mockRepo.On("GetProperty", mock.Anything, id).Return(existing, nil)
	mockRepo.On("UpdateProperty", mock.Anything, mock.Anything).Return(nil)

	vineyard := "vineyard"
	updated, err := svc.UpdateProperty(context.Background(), id, &UpdatePropertyRequest{CropType: &vineyard})
	assert.NoError(t, err)
	assert.Equal(t, 95000.0, updated.EstimatedValue)
}
