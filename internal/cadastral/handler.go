package cadastral

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler proxies cadastral lookups for the drawing tool.
type Handler struct {
	client Client
}

// NewHandler creates a new cadastral handler.
func NewHandler(client Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes mounts the handler under the API group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/cadastral/:identifier", h.Lookup)
}

func (h *Handler) Lookup(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cadastral identifier"})
		return
	}

	record, err := h.client.Lookup(c.Request.Context(), identifier)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}
