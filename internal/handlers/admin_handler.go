package handlers

import (
	"net/http"

	"jobza_backend/internal/auth"
	"jobza_backend/internal/middleware"
	"jobza_backend/internal/models"
	"jobza_backend/internal/services"
	"jobza_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(h.RequireAuth(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUserDetails)
		admin.PUT("/users/:id/status", h.OverrideStatus)
		admin.POST("/users/:id/re-evaluate", h.ReEvaluate)

		admin.GET("/documents/pending", h.ListPendingDocuments)
		admin.PUT("/documents/:id/judgment", h.JudgeDocument)

		admin.GET("/stats", h.GetStats)
	}

	super := admin.Group("")
	super.Use(middleware.RequirePermission(auth.PermAdminsManage))
	{
		super.GET("/admins", h.ListAdmins)
		super.POST("/admins", h.CreateAdmin)
		super.DELETE("/users/:id", h.DeleteUser)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = ParsePagination(c)

	result, err := h.adminService.ListUsers(h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) GetUserDetails(c *gin.Context) {
	details, err := h.adminService.GetUserDetails(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// OverrideStatus - ручная смена статуса аккаунта модератором
func (h *AdminHandler) OverrideStatus(c *gin.Context) {
	actorID, actorRole, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	status, err := h.adminService.OverrideStatus(c.Request.Context(), h.GetDB(c), actorID, actorRole, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *AdminHandler) ReEvaluate(c *gin.Context) {
	status, err := h.adminService.ReEvaluate(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *AdminHandler) ListPendingDocuments(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	result, err := h.adminService.ListPendingDocuments(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) JudgeDocument(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.JudgeDocumentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.adminService.JudgeDocument(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.adminService.CreateAdmin(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, actorRole, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), h.GetDB(c), actorID, actorRole, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
