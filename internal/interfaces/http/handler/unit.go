package handler

import (
	"github.com/gin-gonic/gin"

	unitapp "github.com/stayops/backend/internal/application/unit"
	"github.com/stayops/backend/internal/domain/shared"
	"github.com/stayops/backend/internal/interfaces/http/dto"
)

// UnitHandler handles physical unit status endpoints
type UnitHandler struct {
	BaseHandler
	unitService *unitapp.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(unitService *unitapp.UnitService) *UnitHandler {
	return &UnitHandler{
		unitService: unitService,
	}
}

// RegisterRoutes registers unit status routes
func (h *UnitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/units")
	{
		units.GET("", h.ListByProperty)
		units.GET("/:unitId/status", h.GetStatus)
		units.PUT("/:unitId/status", h.TransitionStatus)
	}
}

// GetStatus returns the operational status of a unit
func (h *UnitHandler) GetStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	result, err := h.unitService.GetStatus(c.Request.Context(), tenantID, unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type unitListQuery struct {
	dto.ListRequest
	PropertyID string `form:"property_id" binding:"required,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=available occupied reserved maintenance cleaning out_of_order"`
}

// ListByProperty returns unit statuses for a property
func (h *UnitHandler) ListByProperty(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query unitListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	query.Normalize()

	propertyID, err := parseUUID(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	result, err := h.unitService.ListByProperty(c.Request.Context(), tenantID, propertyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// TransitionStatus moves a unit to a new operational state
func (h *UnitHandler) TransitionStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	var req unitapp.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.unitService.TransitionStatus(c.Request.Context(), tenantID, unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
