package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	calendarapp "github.com/stayops/backend/internal/application/calendar"
)

// CalendarHandler handles capacity calendar endpoints
type CalendarHandler struct {
	BaseHandler
	calendarService *calendarapp.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService *calendarapp.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

// RegisterRoutes registers calendar routes
func (h *CalendarHandler) RegisterRoutes(rg *gin.RouterGroup) {
	calendar := rg.Group("/calendar")
	{
		calendar.POST("/slots/generate", h.GenerateSlots)
		calendar.GET("/slots", h.GetSlotAvailability)
		calendar.POST("/bookings", h.BookSlot)
		calendar.DELETE("/bookings/:entryId", h.ReleaseSlot)
	}
}

// GenerateSlots materializes calendar slots from a window template
func (h *CalendarHandler) GenerateSlots(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req calendarapp.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.calendarService.EnsureSlotsGenerated(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

type slotAvailabilityQuery struct {
	ResourceID string `form:"resource_id" binding:"required,uuid"`
	From       string `form:"from" binding:"required"`
	To         string `form:"to" binding:"required"`
}

// GetSlotAvailability returns slots with remaining capacity for a date range
func (h *CalendarHandler) GetSlotAvailability(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query slotAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	resourceID, err := parseUUID(query.ResourceID)
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return
	}

	from, err := time.Parse("2006-01-02", query.From)
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", query.To)
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	result, err := h.calendarService.GetSlotAvailability(c.Request.Context(), tenantID, resourceID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// BookSlot books capacity across every slot the request window covers
func (h *CalendarHandler) BookSlot(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req calendarapp.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.calendarService.BookSlot(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ReleaseSlot releases a booking entry, freeing its capacity
func (h *CalendarHandler) ReleaseSlot(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := parseUUIDParam(c, "entryId")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	result, err := h.calendarService.ReleaseSlot(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
