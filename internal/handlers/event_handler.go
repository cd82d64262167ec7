package handlers

import (
	"net/http"

	"udaan_backend/internal/middleware"
	"udaan_backend/internal/models"
	"udaan_backend/internal/services"
	"udaan_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{
		BaseHandler:  base,
		eventService: eventService,
	}
}

func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	events.Use(middleware.AuthMiddleware())
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.POST("", middleware.RequireRoles(models.UserRoleAdmin), h.CreateEvent)
		events.PATCH("/:id/status", h.ChangeStatus)
		events.PUT("/:id/editor", middleware.RequireRoles(models.UserRoleAdmin), h.AssignEditor)
	}
}

// CreateEvent godoc
// @Summary Create a production event
// @Description Admin creates an event assigned to a cameraman, optionally with an editor
// @Tags events
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events visible to the caller
// @Description Admin sees everything, a cameraman their own events, an editor assigned plus open events
// @Tags events
// @Produce json
// @Success 200 {array} models.Event
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListEvents(middleware.GetUserRole(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get one event with its files
// @Tags events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} dto.EventDetailResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	event, files, err := h.eventService.GetEvent(middleware.GetUserRole(c), middleware.GetUserID(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EventDetailResponse{Event: event, Files: files})
}

// ChangeStatus godoc
// @Summary Request a status change
// @Description Moves the event one step along its lifecycle, gated by the caller's role
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param request body dto.StatusChangeRequest true "Target status"
// @Success 200 {object} models.Event
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /events/{id}/status [patch]
func (h *EventHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.RequestStatusChange(id, middleware.GetUserRole(c), middleware.GetUserID(c), req.NextStatus)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// AssignEditor godoc
// @Summary Assign or replace the event's editor
// @Description Admin-only; a null editor_id unassigns
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param request body dto.AssignEditorRequest true "Editor"
// @Success 200 {object} models.Event
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /events/{id}/editor [put]
func (h *EventHandler) AssignEditor(c *gin.Context) {
	id, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignEditorRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.RequestEditorAssignment(id, middleware.GetUserRole(c), req.EditorID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}
