package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-share/helper"
	"recipe-share/middleware"
	"recipe-share/services"
)

type FavouriteHandler struct {
	favouriteService services.FavouriteService
	Helper           *helper.HTTPHelper
}

func NewFavouriteHandler(favouriteService services.FavouriteService) *FavouriteHandler {
	return &FavouriteHandler{favouriteService: favouriteService, Helper: helper.NewHTTPHelper()}
}

func (h *FavouriteHandler) ToggleFavourite(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid recipe ID", h.Helper.EmptyJsonMap())
		return
	}

	result, err := h.favouriteService.ToggleFavourite(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", result)
}

func (h *FavouriteHandler) ListFavourites(c *gin.Context) {
	recipes, err := h.favouriteService.ListFavourites(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", recipes)
}
