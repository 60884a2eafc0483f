package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"securelogin/internal/models"
	"securelogin/internal/services"
)

type AuthHandler struct {
	userService    services.UserService
	authService    services.AuthService
	passwordMinLen int
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, passwordMinLen int) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		authService:    authService,
		passwordMinLen: passwordMinLen,
	}
}

// @Summary      Register a new account
// @Description  Creates a user from email and password; 2FA starts disabled
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Email and password are required.",
		})
		return
	}

	email := strings.TrimSpace(req.Email)
	if len(req.Password) < h.passwordMinLen {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("Password must be at least %d characters.", h.passwordMinLen),
		})
		return
	}

	user, err := h.userService.Register(email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			log.Printf("[auth][register] duplicate email=%q", email)
			c.JSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "User already exists.",
			})
			return
		}
		log.Printf("[auth][register] failed for email=%q: err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to register user.",
		})
		return
	}

	log.Printf("[auth][register] success userID=%d", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered.",
		"userId":  user.ID,
	})
}

// @Summary      Log in
// @Description  Password check; accounts with 2FA enabled get requires2FA instead of a token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Login data"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Email and password are required.",
		})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, err := h.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Printf("[auth][login] user not found by email=%q", email)
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "user_not_found",
				"message": "User not found.",
			})
			return
		}
		log.Printf("[auth][login] lookup failed for email=%q: err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to log in.",
		})
		return
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		log.Printf("[auth][login] password mismatch for userID=%d email=%q", user.ID, email)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid email or password.",
		})
		return
	}
	log.Printf("[auth][login] password OK for userID=%d", user.ID)

	// Критичная ветка: при включённой 2FA пароль сам по себе не
	// аутентифицирует — токен выдаёт только /2fa/login.
	if user.Is2FAEnabled {
		log.Printf("[auth][login] 2FA required for userID=%d", user.ID)
		c.JSON(http.StatusOK, gin.H{
			"message":     "2FA required",
			"requires2FA": true,
			"userId":      user.ID,
		})
		return
	}

	token, err := issueSessionToken(user.ID, user.Email)
	if err != nil {
		log.Printf("[auth][login] sign session token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to generate session token.",
		})
		return
	}

	log.Printf("[auth][login] success userID=%d took=%s", user.ID, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusOK, gin.H{
		"message":     "Login successful.",
		"requires2FA": false,
		"token":       token,
	})
}
