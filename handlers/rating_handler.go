package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-share/helper"
	"recipe-share/middleware"
	"recipe-share/models"
	"recipe-share/services"
)

type RatingHandler struct {
	ratingService services.RatingService
	Helper        *helper.HTTPHelper
}

func NewRatingHandler(ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, Helper: helper.NewHTTPHelper()}
}

func (h *RatingHandler) RateRecipe(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid recipe ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.RateRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.ratingService.RateRecipe(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	if result.Outcome == models.RatingCreated {
		h.Helper.SendCreated(c, "Rating saved", result)
		return
	}
	h.Helper.SendSuccess(c, "Rating updated", result)
}

// DeleteRating removes the caller's rating, or another user's when
// ?user_id= is given by a moderator or admin.
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid recipe ID", h.Helper.EmptyJsonMap())
		return
	}

	var raterID uint
	if c.Query("user_id") != "" {
		var query struct {
			UserID uint `form:"user_id"`
		}
		if err := c.ShouldBindQuery(&query); err != nil {
			h.Helper.SendBadRequest(c, "Invalid user ID", err.Error())
			return
		}
		raterID = query.UserID
	}

	summary, err := h.ratingService.DeleteRating(c.Request.Context(), middleware.CurrentUser(c), id, raterID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Rating deleted", summary)
}

func (h *RatingHandler) ListRatings(c *gin.Context) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid recipe ID", h.Helper.EmptyJsonMap())
		return
	}

	ratings, err := h.ratingService.ListRatings(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", ratings)
}
