package controller

import (
	"net/http"

	"gala/app_error"
	"gala/repository"
	"gala/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		userService: service.NewUserService(db),
	}
}

func setupUserController(db *gorm.DB) []RouteInfo {
	e := NewUserController(db)
	basePath := "/users"
	routes := []RouteInfo{
		{Method: "GET", Path: "/self", HandlerFunc: e.getUserHandler(), Authenticated: true},
		{Method: "POST", Path: "/logout", HandlerFunc: e.logoutHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetUser
// @Description Fetches the authenticated user with their role and judge profile
// @Tags user
// @Produce json
// @Success 200 {object} UserResponse
// @Router /users/self [get]
// @Security BearerAuth
func (e *UserController) getUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := e.userService.GetSelf(c, getCaller(c))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(profile))
	}
}

// @id Logout
// @Description Clears the auth cookie
// @Tags user
// @Success 204
// @Router /users/logout [post]
func (e *UserController) logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("auth", "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	}
}

type UserResponse struct {
	Id        int             `json:"id" binding:"required"`
	Username  string          `json:"username" binding:"required"`
	FirstName string          `json:"prenom" binding:"required"`
	LastName  string          `json:"nom" binding:"required"`
	Role      repository.Role `json:"role" binding:"required"`
	JudgeId   *int            `json:"juge_id"`
}

func toUserResponse(profile *service.UserProfile) *UserResponse {
	return &UserResponse{
		Id:        profile.User.ID,
		Username:  profile.User.Username,
		FirstName: profile.User.FirstName,
		LastName:  profile.User.LastName,
		Role:      profile.User.Role,
		JudgeId:   profile.JudgeId,
	}
}
