package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/user/profile
func (uh *UserHandler) GetProfile(c *gin.Context) {
	u, err := uh.userService.GetProfile(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// PUT /api/user/profile
// body: { "first_name": "...", "fitness_goal": "..." }
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /api/user/notifications
func (uh *UserHandler) GetNotifications(c *gin.Context) {
	n, err := uh.userService.GetNotifications(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, n)
}

// PUT /api/user/notifications
// body: { "enabled": bool, "training_days": [...], "training_time": "HH:MM" }, all optional
func (uh *UserHandler) UpdateNotifications(c *gin.Context) {
	var req types.NotificationSettingsPatch
	if !bindJSON(c, &req) {
		return
	}
	n, err := uh.userService.UpdateNotifications(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, n)
}

// GET /api/user/purchases
func (uh *UserHandler) ListPurchases(c *gin.Context) {
	out, err := uh.userService.ListPurchases(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/user/courses
func (uh *UserHandler) ListCourses(c *gin.Context) {
	out, err := uh.userService.ListCourses(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/user/account
func (uh *UserHandler) DeleteAccount(c *gin.Context) {
	if err := uh.userService.DeleteAccount(c.Request.Context()); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Account deleted"})
}
