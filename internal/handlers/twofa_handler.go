package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"securelogin/internal/models"
	"securelogin/internal/services"
)

type TwoFAHandler struct {
	twoFAService services.TwoFAService
}

func NewTwoFAHandler(twoFAService services.TwoFAService) *TwoFAHandler {
	return &TwoFAHandler{twoFAService: twoFAService}
}

// @Summary      Begin 2FA enrollment
// @Description  Generates a shared secret and enrollment QR; 2FA stays off until verified
// @Tags         2FA
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TwoFASetup
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /2fa/setup [get]
func (h *TwoFAHandler) Setup(c *gin.Context) {
	userID, _ := sessionUser(c)

	setup, err := h.twoFAService.Setup(userID)
	if err != nil {
		switch {
		case errors.Is(err, services.Err2FAAlreadyEnabled):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "twofa_already_enabled",
				"message": "2FA is already enabled for this account.",
			})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "user_not_found",
				"message": "User not found.",
			})
		default:
			log.Printf("[2fa][setup] failed for userID=%d: err=%v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "server_error",
				"message": "Failed to generate 2FA secret.",
			})
		}
		return
	}

	log.Printf("[2fa][setup] secret provisioned for userID=%d", userID)
	c.JSON(http.StatusOK, setup)
}

// @Summary      Confirm 2FA enrollment
// @Description  Checks the first authenticator code and switches 2FA on
// @Tags         2FA
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        verify  body      models.TwoFAVerifyRequest  true  "Authenticator code"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /2fa/verify [post]
func (h *TwoFAHandler) Verify(c *gin.Context) {
	userID, _ := sessionUser(c)

	var req models.TwoFAVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_code",
			"message": "2FA code is required.",
		})
		return
	}

	if err := h.twoFAService.Verify(userID, strings.TrimSpace(req.Code)); err != nil {
		switch {
		case errors.Is(err, services.Err2FANotSetUp):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "twofa_not_set_up",
				"message": "2FA setup has not been initiated.",
			})
		case errors.Is(err, services.Err2FAAlreadyEnabled):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "twofa_already_enabled",
				"message": "2FA is already enabled for this account.",
			})
		case errors.Is(err, services.ErrInvalidCode):
			log.Printf("[2fa][verify] invalid code for userID=%d", userID)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_code",
				"message": "Invalid 2FA code.",
			})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "user_not_found",
				"message": "User not found.",
			})
		default:
			log.Printf("[2fa][verify] failed for userID=%d: err=%v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "server_error",
				"message": "Failed to verify 2FA code.",
			})
		}
		return
	}

	log.Printf("[2fa][verify] 2FA enabled for userID=%d", userID)
	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled."})
}

// @Summary      Complete a 2FA-gated login
// @Description  Second factor after /auth/login answered requires2FA; issues the session token
// @Tags         2FA
// @Accept       json
// @Produce      json
// @Param        login  body      models.TwoFALoginRequest  true  "User id and authenticator code"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /2fa/login [post]
func (h *TwoFAHandler) Login(c *gin.Context) {
	var req models.TwoFALoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 || strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_fields",
			"message": "userId and code are required.",
		})
		return
	}

	user, err := h.twoFAService.Authenticate(req.UserID, strings.TrimSpace(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "user_not_found",
				"message": "User not found.",
			})
		case errors.Is(err, services.Err2FANotEnabled):
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "twofa_not_enabled",
				"message": "2FA is not enabled for this account.",
			})
		case errors.Is(err, services.ErrInvalidCode):
			log.Printf("[2fa][login] invalid code for userID=%d", req.UserID)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_code",
				"message": "Invalid 2FA code.",
			})
		default:
			log.Printf("[2fa][login] failed for userID=%d: err=%v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "server_error",
				"message": "Failed to log in.",
			})
		}
		return
	}

	token, err := issueSessionToken(user.ID, user.Email)
	if err != nil {
		log.Printf("[2fa][login] sign session token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to generate session token.",
		})
		return
	}

	log.Printf("[2fa][login] success userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful (2FA).",
		"token":   token,
	})
}
