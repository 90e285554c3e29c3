package alerts

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agriscope/land-portal/land-portal-backend/internal/notifications"
)

// Handler exposes alert ingestion and listing.
type Handler struct {
	repo   Repository
	events notifications.Publisher
}

// NewHandler creates a new alerts handler.
func NewHandler(repo Repository, events notifications.Publisher) *Handler {
	return &Handler{repo: repo, events: events}
}

// RegisterRoutes mounts the handler under the API group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/alerts", h.ListAlerts)
	r.POST("/alerts", h.CreateAlert)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	list, err := h.repo.ListAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := &Alert{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,
		Type:       req.Type,
		Severity:   req.Severity,
		Message:    req.Message,
		Sector:     req.Sector,
		Lat:        req.Lat,
		Lng:        req.Lng,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.repo.CreateAlert(c.Request.Context(), alert); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.events.Publish(notifications.Event{Type: notifications.EventAlertTriggered, Payload: alert})

	c.JSON(http.StatusCreated, alert)
}
