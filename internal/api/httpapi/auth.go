package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"age-api/internal/domain/entity"
)

// Authenticator то, что обработчикам входа нужно от приложения
type Authenticator interface {
	Signup(ctx context.Context, username, password string) (*entity.Account, error)
	Login(ctx context.Context, username, password string) (*entity.Account, error)
}

// AuthHandler регистрация и вход
type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  int64  `json:"user_id,omitempty"`
}

// Signup POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Status: "error", Message: "Invalid signup details"})
		return
	}

	account, err := h.auth.Signup(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, authResponse{Status: "ok", Message: "Account created successfully", UserID: account.ID})
	case errors.Is(err, entity.ErrInvalidSignup), errors.Is(err, entity.ErrUsernameTaken):
		// занятое имя не отличается от неверных данных
		c.JSON(http.StatusBadRequest, authResponse{Status: "error", Message: "Invalid signup details"})
	default:
		log.WithError(err).Error("[HTTP] Signup failed")
		c.JSON(http.StatusInternalServerError, authResponse{Status: "error", Message: "Couldn't create account - please try again later"})
	}
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Status: "error", Message: "Invalid credentials"})
		return
	}

	account, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, authResponse{Status: "ok", Message: "Login successful", UserID: account.ID})
	case errors.Is(err, entity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, authResponse{Status: "error", Message: "Invalid credentials"})
	default:
		log.WithError(err).Error("[HTTP] Login failed")
		c.JSON(http.StatusInternalServerError, authResponse{Status: "error", Message: "Couldn't log in - please try again later"})
	}
}
