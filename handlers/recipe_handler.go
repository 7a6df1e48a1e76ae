package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-share/helper"
	"recipe-share/middleware"
	"recipe-share/models"
	"recipe-share/services"
)

type RecipeHandler struct {
	recipeService services.RecipeService
	Helper        *helper.HTTPHelper
}

func NewRecipeHandler(recipeService services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, Helper: helper.NewHTTPHelper()}
}

func (h *RecipeHandler) recipeID(c *gin.Context) (uint, bool) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid recipe ID", h.Helper.EmptyJsonMap())
	}
	return id, ok
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	var params models.RecipeSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query", err.Error())
		return
	}

	result, err := h.recipeService.SearchRecipes(c.Request.Context(), middleware.CurrentUser(c), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", result)
}

// GetRecipe also serves the public route, where the viewer may be nil.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	detail, err := h.recipeService.GetRecipe(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", detail)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req models.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), middleware.CurrentUser(c), req, helper.NewRequestInfo(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Recipe created", recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req models.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), middleware.CurrentUser(c), id, req, helper.NewRequestInfo(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Recipe updated", recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.CurrentUser(c), id, helper.NewRequestInfo(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Recipe deleted", h.Helper.EmptyJsonMap())
}
