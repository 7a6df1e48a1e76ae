package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-share/helper"
	"recipe-share/middleware"
	"recipe-share/models"
	"recipe-share/services"
)

type AdminHandler struct {
	userService   services.UserService
	recipeService services.RecipeService
	auditService  services.AuditService
	Helper        *helper.HTTPHelper
}

func NewAdminHandler(userService services.UserService, recipeService services.RecipeService, auditService services.AuditService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		recipeService: recipeService,
		auditService:  auditService,
		Helper:        helper.NewHTTPHelper(),
	}
}

func (h *AdminHandler) Panel(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.Helper.SendSuccess(c, "", gin.H{
		"user":        user,
		"permissions": models.PermissionsFor(user),
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var params models.UserListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query", err.Error())
		return
	}

	panel, err := h.userService.AdminPanel(c.Request.Context(), middleware.CurrentUser(c), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", panel)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), id, helper.NewRequestInfo(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User deleted", h.Helper.EmptyJsonMap())
}

func (h *AdminHandler) FlagUser(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.FlagUser(c.Request.Context(), middleware.CurrentUser(c), id, helper.NewRequestInfo(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User flagged for deletion", user)
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), middleware.CurrentUser(c), id, req, helper.NewRequestInfo(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Role updated", user)
}

func (h *AdminHandler) DeleteRecipe(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid recipe ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.CurrentUser(c), id, helper.NewRequestInfo(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Recipe deleted", h.Helper.EmptyJsonMap())
}

func (h *AdminHandler) ListLogs(c *gin.Context) {
	var params models.LogListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		// Malformed values are dropped rather than rejected.
		params = models.LogListParams{
			Search:     c.Query("search"),
			ActionType: c.Query("action_type"),
			TargetType: c.Query("target_type"),
			Actor:      c.Query("actor"),
			DateFrom:   c.Query("date_from"),
			DateTo:     c.Query("date_to"),
		}
	}

	page, err := h.auditService.ListLogs(c.Request.Context(), middleware.CurrentUser(c), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", gin.H{
		"logs":          page.Logs,
		"filter_values": page.FilterValues,
		"options":       page.Options,
		"pagination":    h.Helper.GeneratePaging(c, 0, 0, page.PerPage, page.Page, int(page.Total)),
	})
}
