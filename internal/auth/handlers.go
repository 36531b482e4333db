package auth

import (
	"net/http"
	"time"

	apperrors "talentbase-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service *AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// CredentialsRequest is the body of sign up and sign in requests
type CredentialsRequest struct {
	Email    string `json:"email" form:"email" binding:"required" example:"admin@nnl.test"`
	Password string `json:"password" form:"password" binding:"required" example:"secret123"`
}

// SignUp handles POST /api/auth/signup
// @Summary Create an account
// @Description Create an account with email and password and start a session
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 201 {object} Session
// @Failure 400 {object} map[string]interface{} "Invalid email or password"
// @Failure 409 {object} map[string]interface{} "Account already exists"
// @Router /api/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": apperrors.Message(err)})
		return
	}

	h.SetSessionCookie(c, session)
	c.JSON(http.StatusCreated, session)
}

// SignIn handles POST /api/auth/signin
// @Summary Sign in
// @Description Exchange email and password for a session token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} Session
// @Failure 401 {object} map[string]interface{} "Invalid email or password"
// @Router /api/auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": apperrors.Message(err)})
		return
	}

	h.SetSessionCookie(c, session)
	c.JSON(http.StatusOK, session)
}

// SignOut handles POST /api/auth/signout
// @Summary Sign out
// @Description Revoke the current session token
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Not signed in"
// @Router /api/auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	token, ok := GetSessionToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrNotSignedIn.Error()})
		return
	}
	if err := h.service.SignOut(c.Request.Context(), token); err != nil {
		c.JSON(StatusFor(err), gin.H{"error": apperrors.Message(err)})
		return
	}

	h.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Return the signed-in user and whether they may change the roster
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Not signed in"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(authorizer *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrNotSignedIn.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "is_admin": authorizer.IsAdmin(user)})
	}
}

// SetSessionCookie stores the session token in the console cookie
func (h *AuthHandler) SetSessionCookie(c *gin.Context, session *Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.service.config.CookieName, session.Token, maxAge, "/", "", h.service.config.SecureCookie, true)
}

// ClearSessionCookie removes the console cookie
func (h *AuthHandler) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.service.config.CookieName, "", -1, "/", "", h.service.config.SecureCookie, true)
}

// StatusFor maps authentication errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsAlreadyExists(err):
		return http.StatusConflict
	case apperrors.IsAuthentication(err):
		return http.StatusUnauthorized
	case apperrors.IsAuthorization(err):
		return http.StatusForbidden
	case apperrors.IsPersistence(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
