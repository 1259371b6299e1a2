package handler

import (
	"net/http"

	model "auction-market/internal/models"
	"auction-market/services/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

type UserServiceInterface interface {
	Register(name, email, password, role string) (model.User, string, error)
	Login(email, password string) (model.User, string, error)
	Logout(token string) error
}

type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterHandler handles POST /register
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	u, token, err := h.service.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		helpers.HandleServiceError(c, "RegisterHandler", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         helpers.NewUserResponse(u),
		"access_token": token,
		"token_type":   "Bearer",
	})
	helpers.LogSuccess("RegisterHandler", "user registered", map[string]any{"user_id": u.ID, "role": u.Role})
}

// LoginHandler handles POST /login
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	u, token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		helpers.HandleServiceError(c, "LoginHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      u.Name + " logged in",
		"user":         helpers.NewUserResponse(u),
		"access_token": token,
		"token_type":   "Bearer",
	})
	helpers.LogSuccess("LoginHandler", "user logged in", map[string]any{"user_id": u.ID})
}

// MeHandler handles GET /me
func (h *UserHandler) MeHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": helpers.NewUserResponse(user)})
}

// LogoutHandler handles POST /logout and revokes the presented token.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	if _, ok := helpers.MustCurrentUser(c); !ok {
		return
	}

	token, _ := c.Get(helpers.AccessTokenKey)
	tokenStr, _ := token.(string)
	if err := h.service.Logout(tokenStr); err != nil {
		helpers.HandleServiceError(c, "LogoutHandler", err)
		return
	}

	utils.JSONMessage(c, http.StatusOK, "You have successfully logged out.")
}
