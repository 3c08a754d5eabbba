package handlers

import (
	"net/http"

	"jobza_backend/internal/auth"
	"jobza_backend/internal/middleware"
	"jobza_backend/internal/services"
	"jobza_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/profiles/me")
	me.Use(h.RequireAuth())
	{
		me.GET("", h.GetMyProfile)
		me.PUT("", h.UpdateMyProfile)
		me.PUT("/skills", h.UpdateSkills)
		me.GET("/completeness", h.GetCompleteness)
	}

	// каталог одобренных работников для нанимающих
	workers := r.Group("/workers")
	workers.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermWorkersBrowse))
	{
		workers.GET("", h.SearchWorkers)
		workers.GET("/:id", h.GetWorker)
	}
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	status, err := h.profileService.UpdateMyProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ProfileHandler) UpdateSkills(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSkillsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	status, err := h.profileService.UpdateSkills(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ProfileHandler) GetCompleteness(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	details, err := h.profileService.GetCompleteness(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *ProfileHandler) SearchWorkers(c *gin.Context) {
	var req dto.WorkerSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Page, req.PageSize = ParsePagination(c)

	result, err := h.profileService.SearchWorkers(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProfileHandler) GetWorker(c *gin.Context) {
	card, err := h.profileService.GetWorker(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}
