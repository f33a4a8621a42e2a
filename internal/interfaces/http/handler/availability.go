package handler

import (
	"github.com/gin-gonic/gin"

	availabilityapp "github.com/stayops/backend/internal/application/availability"
	"github.com/stayops/backend/internal/domain/shared"
	"github.com/stayops/backend/internal/interfaces/http/dto"
)

// AvailabilityHandler handles availability and movement ledger endpoints
type AvailabilityHandler struct {
	BaseHandler
	availabilityService *availabilityapp.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availabilityService *availabilityapp.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
	}
}

// RegisterRoutes registers availability routes
func (h *AvailabilityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	availability := rg.Group("/availability")
	{
		availability.GET("", h.List)
		availability.POST("/movements", h.RecordMovement)
		availability.GET("/:resourceId", h.GetAvailability)
		availability.PUT("/:resourceId/thresholds", h.SetThresholds)
		availability.GET("/:resourceId/movements", h.ListMovements)
	}
}

// RecordMovement appends a movement to the ledger and returns the updated snapshot
func (h *AvailabilityHandler) RecordMovement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req availabilityapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.availabilityService.RecordMovement(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetAvailability returns the availability snapshot for a resource
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resourceID, err := parseUUIDParam(c, "resourceId")
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return
	}

	result, err := h.availabilityService.GetAvailability(c.Request.Context(), tenantID, resourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type availabilityListQuery struct {
	dto.ListRequest
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	LowStock   bool   `form:"low_stock"`
	OutOfStock bool   `form:"out_of_stock"`
	Overstock  bool   `form:"overstock"`
}

// List returns availability snapshots for the tenant
func (h *AvailabilityHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query availabilityListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	query.Normalize()

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if query.PropertyID != "" {
		filter.Filters["property_id"] = query.PropertyID
	}
	if query.ResourceID != "" {
		filter.Filters["resource_id"] = query.ResourceID
	}
	if query.LowStock {
		filter.Filters["low_stock"] = true
	}
	if query.OutOfStock {
		filter.Filters["out_of_stock"] = true
	}
	if query.Overstock {
		filter.Filters["overstock"] = true
	}

	result, err := h.availabilityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// SetThresholds updates the alert thresholds for a resource
func (h *AvailabilityHandler) SetThresholds(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resourceID, err := parseUUIDParam(c, "resourceId")
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return
	}

	var req availabilityapp.SetThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.availabilityService.SetThresholds(c.Request.Context(), tenantID, resourceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMovements returns the movement ledger for a resource
func (h *AvailabilityHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resourceID, err := parseUUIDParam(c, "resourceId")
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return
	}

	var filter availabilityapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.availabilityService.ListMovements(c.Request.Context(), tenantID, resourceID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
