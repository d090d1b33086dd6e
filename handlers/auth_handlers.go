package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/middleware"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	authService *services.AuthService
	cfg         config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var request models.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setAuthCookie(c, resp.Token)
	utils.HandleSuccess(c, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setAuthCookie(c, resp.Token)
	utils.HandleSuccess(c, resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	utils.HandleSuccess(c, gin.H{"success": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"user": user})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, int(h.authService.TokenTTL().Seconds()), "/", "", h.cfg.CookieSecure, true)
}
