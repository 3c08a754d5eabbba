package handlers

import (
	"context"
	"net/http"

	"jobza_backend/internal/auth"
	"jobza_backend/internal/middleware"
	"jobza_backend/internal/models"
	"jobza_backend/internal/services"
	"jobza_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ConnectionHandler struct {
	*BaseHandler
	connectionService services.ConnectionService
}

func NewConnectionHandler(base *BaseHandler, connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler:       base,
		connectionService: connectionService,
	}
}

func (h *ConnectionHandler) RegisterRoutes(r *gin.RouterGroup) {
	conns := r.Group("/connections")
	conns.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermConnectionsSend))
	{
		conns.POST("", h.Create)
		conns.GET("", h.List)
		conns.PUT("/:id/accept", h.transition(h.connectionService.Accept))
		conns.PUT("/:id/reject", h.transition(h.connectionService.Reject))
		conns.PUT("/:id/cancel", h.transition(h.connectionService.Cancel))
	}
}

func (h *ConnectionHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateConnectionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	conn, err := h.connectionService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conn)
}

func (h *ConnectionHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConnectionListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Page, req.PageSize = ParsePagination(c)

	result, err := h.connectionService.List(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type connectionTransition func(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error)

func (h *ConnectionHandler) transition(fn connectionTransition) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := h.GetAndAuthorizeUserID(c)
		if !ok {
			return
		}

		conn, err := fn(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, conn)
	}
}
