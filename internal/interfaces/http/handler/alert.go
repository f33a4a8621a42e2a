package handler

import (
	"github.com/gin-gonic/gin"

	alertingapp "github.com/stayops/backend/internal/application/alerting"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	BaseHandler
	alertService *alertingapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *alertingapp.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// RegisterRoutes registers alert routes
func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	alerts := rg.Group("/alerts")
	{
		alerts.GET("", h.List)
		alerts.PUT("/:alertId/resolve", h.Resolve)
	}
}

// List returns alerts for the tenant, open ones first
func (h *AlertHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter alertingapp.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.alertService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Resolve manually resolves an alert
func (h *AlertHandler) Resolve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	alertID, err := parseUUIDParam(c, "alertId")
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	// Body is optional, resolution works without an actor
	var req alertingapp.ResolveAlertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	result, err := h.alertService.Resolve(c.Request.Context(), tenantID, alertID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
