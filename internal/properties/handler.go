package properties

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
	"agriscope/land-portal/land-portal-backend/internal/sketch"
)

// Handler exposes the property CRUD and polygon preview endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new properties handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handler under the API group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/properties", h.ListProperties)
	r.POST("/properties", h.CreateProperty)
	r.GET("/properties/overlays", h.Overlays)
	r.POST("/properties/preview", h.PreviewPolygon)
	r.GET("/properties/:id", h.GetProperty)
	r.PATCH("/properties/:id", h.UpdateProperty)
	r.DELETE("/properties/:id", h.DeleteProperty)
}

func (h *Handler) ListProperties(c *gin.Context) {
	list, err := h.service.ListProperties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.service.CreateProperty(c.Request.Context(), &req)
	switch {
	case errors.Is(err, sketch.ErrTooFewVertices), errors.Is(err, sketch.ErrNoCentroid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, property)
	}
}

type previewRequest struct {
	Coordinates []geometry.Vertex `json:"coordinates"`
	CropType    string            `json:"crop_type"`
}

// PreviewPolygon returns recomputed area, center and estimated value for a
// polygon under construction; the dashboard calls it after every change.
func (h *Handler) PreviewPolygon(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.PreviewPolygon(req.Coordinates, req.CropType))
}

func (h *Handler) Overlays(c *gin.Context) {
	overlays, err := h.service.Overlays(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overlays)
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}

	property, err := h.service.GetProperty(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, property)
	}
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.service.UpdateProperty(c.Request.Context(), id, &req)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, property)
	}
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}

	err = h.service.DeleteProperty(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}
