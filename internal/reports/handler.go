package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agriscope/land-portal/land-portal-backend/internal/ledger"
	"agriscope/land-portal/land-portal-backend/internal/pricing"
	"agriscope/land-portal/land-portal-backend/internal/reports/export"
)

// Handler exposes reports, subscription and pricing endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new reports handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handler under the API group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reports", h.ListReports)
	r.POST("/reports", h.RequestManualReport)
	r.GET("/reports/export", h.ExportReports)

	r.GET("/subscription", h.GetSubscription)
	r.POST("/subscription/activate", h.ActivateSubscription)

	r.GET("/pricing/quote", h.Quote)
}

func (h *Handler) ListReports(c *gin.Context) {
	var propertyID *uuid.UUID
	if raw := c.Query("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property_id"})
			return
		}
		propertyID = &id
	}

	list, err := h.service.ListReports(c.Request.Context(), propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) RequestManualReport(c *gin.Context) {
	var req ManualReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.RequestManualReport(c.Request.Context(), &req)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) ExportReports(c *gin.Context) {
	list, err := h.service.ListReports(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	columns := []string{"ID", "Title", "Kind", "Property", "Created At"}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		property := ""
		if r.PropertyID != nil {
			property = r.PropertyID.String()
		}
		rows = append(rows, []string{
			r.ID.String(), r.Title, string(r.Kind), property,
			r.CreatedAt.Format(time.RFC3339),
		})
	}

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		c.Header("Content-Disposition", `attachment; filename="reports.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.NewExcelExporter("Reports").Export(c.Writer, columns, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="reports.csv"`)
		c.Header("Content-Type", "text/csv")
		if err := export.NewCSVExporter().Export(c.Writer, columns, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
	}
}

func (h *Handler) GetSubscription(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Subscription())
}

type activateRequest struct {
	Tier string `json:"tier" binding:"required"`
}

func (h *Handler) ActivateSubscription(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tier, err := pricing.ParseTier(req.Tier)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.service.Activate(c.Request.Context(), tier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) Quote(c *gin.Context) {
	tier, err := pricing.ParseTier(c.Query("tier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	areaHa, err := strconv.ParseFloat(c.Query("area_ha"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area_ha"})
		return
	}

	price, err := h.service.Quote(tier, areaHa)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":    tier,
		"area_ha": areaHa,
		"price":   price,
	})
}

// writeLedgerError maps ledger denial signals onto the re-subscription flow.
func (h *Handler) writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrExhausted), errors.Is(err, ledger.ErrNotSubscribed):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":  err.Error(),
			"action": "subscribe",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to generate report: %v", err)})
	}
}
