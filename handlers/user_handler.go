package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-share/helper"
	"recipe-share/middleware"
	"recipe-share/services"
)

type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService, Helper: helper.NewHTTPHelper()}
}

func (h *UserHandler) userID(c *gin.Context) (uint, bool) {
	id, ok := helper.ParamID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
	}
	return id, ok
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, err := h.userService.SearchUsers(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", gin.H{"users": users, "query": c.Query("query")})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", profile)
}

func (h *UserHandler) ToggleFollow(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	outcome, err := h.userService.ToggleFollow(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, string(outcome), gin.H{"outcome": outcome})
}

func (h *UserHandler) Followers(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	users, err := h.userService.Followers(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", users)
}

func (h *UserHandler) Following(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	users, err := h.userService.Following(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", users)
}
