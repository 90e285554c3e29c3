package properties

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
	"agriscope/land-portal/land-portal-backend/internal/overlay"
	"agriscope/land-portal/land-portal-backend/internal/sketch"
	"agriscope/land-portal/land-portal-backend/pkg/geospatial"
)

// Service provides business logic for land parcel management.
type Service struct {
	repo       Repository
	cropValues CropValueTable
	logger     *zap.Logger
}

// NewService creates a new properties service.
func NewService(repo Repository, cropValues CropValueTable, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		cropValues: cropValues,
		logger:     logger,
	}
}

// Preview recomputes the derived values for a polygon under construction.
// Called on every vertex change; pure computation, nothing is persisted.
type Preview struct {
	AreaHa    float64          `json:"area_ha"`
	Center    *geometry.Vertex `json:"center"`
	Complete  bool             `json:"complete"`
	AreaPrice float64          `json:"estimated_value"`
	CropType  string           `json:"crop_type,omitempty"`
	Vertices  int              `json:"vertices"`
}

// PreviewPolygon derives area, center and estimated value for a vertex list.
func (s *Service) PreviewPolygon(vertices []geometry.Vertex, cropType string) Preview {
	p := Preview{
		AreaHa:   geometry.AreaHa(vertices),
		Complete: len(vertices) >= 3,
		CropType: cropType,
		Vertices: len(vertices),
	}
	if center, ok := geometry.Centroid(vertices); ok {
		p.Center = &center
	}
	p.AreaPrice = p.AreaHa * s.cropValues.ValuePerHa(cropType)
	return p
}

// CreateProperty finalizes a drawn polygon and persists the parcel. The
// polygon is validated and closed through the same path the drawing tool
// uses, so a shape that previews as incomplete can never be stored.
func (s *Service) CreateProperty(ctx context.Context, req *CreatePropertyRequest) (*Property, error) {
	fin, err := sketch.New(req.Coordinates).Finalize()
	if err != nil {
		return nil, err
	}

	geo, err := geospatial.RingToGeoJSON(fin.Ring)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	property := &Property{
		ID:             uuid.New(),
		Name:           req.Name,
		Geometry:       geo,
		AxisOrder:      overlay.AxisOrderLngLat,
		Ring:           fin.Ring,
		CropType:       req.CropType,
		AreaHa:         fin.AreaHa,
		CenterLat:      fin.Center.Lat,
		CenterLng:      fin.Center.Lng,
		EstimatedValue: fin.AreaHa * s.cropValues.ValuePerHa(req.CropType),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateProperty(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("name", property.Name),
		zap.Float64("area_ha", property.AreaHa))

	return property, nil
}

// GetProperty returns one parcel with its decoded ring.
func (s *Service) GetProperty(ctx context.Context, id uuid.UUID) (*Property, error) {
	property, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if ring, err := s.decodeRing(property); err == nil {
		property.Ring = ring
	}

	return property, nil
}

// ListProperties returns all parcels with decoded rings.
func (s *Service) ListProperties(ctx context.Context) ([]Property, error) {
	properties, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	for i := range properties {
		if ring, err := s.decodeRing(&properties[i]); err == nil {
			properties[i].Ring = ring
		}
	}

	return properties, nil
}

// Overlays returns every stored parcel normalized for read-only rendering
// under the drawing tool. A parcel with unreadable geometry is skipped, not
// fatal.
func (s *Service) Overlays(ctx context.Context) ([]overlay.Parcel, error) {
	properties, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]overlay.Parcel, 0, len(properties))
	legacy := make([]overlay.StoredParcel, 0)

	for _, p := range properties {
		ring, err := geospatial.RingFromGeoJSON(p.Geometry)
		if err == nil {
			out = append(out, overlay.Parcel{Name: p.Name, Ring: ring})
			continue
		}
		// Rows written before geometry became GeoJSON hold a bare
		// coordinate array, possibly without an axis-order tag.
		legacy = append(legacy, overlay.StoredParcel{
			Name:        p.Name,
			AxisOrder:   p.AxisOrder,
			Coordinates: json.RawMessage(p.Geometry),
		})
	}

	out = append(out, overlay.Normalize(legacy, s.logger)...)

	return out, nil
}

// UpdateProperty applies metadata changes to a parcel.
func (s *Service) UpdateProperty(ctx context.Context, id uuid.UUID, req *UpdatePropertyRequest) (*Property, error) {
	property, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.CropType != nil {
		property.CropType = *req.CropType
		property.EstimatedValue = property.AreaHa * s.cropValues.ValuePerHa(*req.CropType)
	}
	if req.EstimatedValue != nil {
		property.EstimatedValue = *req.EstimatedValue
	}
	property.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProperty(ctx, property); err != nil {
		return nil, err
	}

	return property, nil
}

// DeleteProperty removes a parcel.
func (s *Service) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

func (s *Service) decodeRing(p *Property) ([]geometry.Vertex, error) {
	ring, err := geospatial.RingFromGeoJSON(p.Geometry)
	if err == nil {
		return ring, nil
	}
	return overlay.DecodeRing(json.RawMessage(p.Geometry), p.AxisOrder)
}
