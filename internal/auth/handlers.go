package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/config"
)

// EventLogger records authentication events.
type EventLogger interface {
	LogAuth(userID string, action string, ipAddr, userAgent string, success bool)
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	middleware     *Middleware
	rateLimiter    *RateLimiter
	events         EventLogger
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, middleware *Middleware, cfg config.Auth) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		Limit:          cfg.RateLimitAttempts,
		WindowDuration: cfg.RateLimitWindow,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		middleware:     middleware,
		rateLimiter:    rateLimiter,
	}
}

// SetEventLogger registers the audit sink for sign-in, sign-up and sign-out.
func (ac *AuthController) SetEventLogger(events EventLogger) {
	ac.events = events
}

// RegisterRoutes registers authentication routes under group (e.g. /api/auth).
func (ac *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	limited := ac.rateLimiter.RateLimitMiddleware()

	group.GET("/csrf", ac.CSRFToken)
	group.POST("/sign-up", limited, ac.SignUp)
	group.POST("/sign-in", limited, ac.SignIn)
	group.POST("/sign-out", ac.SignOut)

	authed := group.Group("", ac.middleware.RequireAuth())
	authed.GET("/me", ac.Me)
	authed.POST("/token", ac.GenerateToken)
	authed.DELETE("/token", ac.RevokeToken)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

func (ac *AuthController) logAuth(c *gin.Context, userID, action string, success bool) {
	if ac.events != nil {
		ac.events.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
	}
}

func authError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message, "code": status})
}

// CSRFToken returns the token that cookie-authenticated clients must echo in
// the X-CSRF-Token header of unsafe requests.
func (ac *AuthController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": GetCSRFToken(c)})
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers a new account. The account starts PENDING and cannot
// borrow until an administrator approves it.
func (ac *AuthController) SignUp(c *gin.Context) {
	var req SignUpParams
	if err := c.ShouldBindJSON(&req); err != nil {
		authError(c, http.StatusBadRequest, "invalid sign-up request: "+err.Error())
		return
	}

	user, err := ac.service.SignUp(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserExists):
		ac.logAuth(c, "", "sign_up", false)
		authError(c, http.StatusConflict, "User already exists")
		return
	case errors.Is(err, ErrFullNameInvalid), errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrUniversityIDMissing), errors.Is(err, ErrUniversityCardMissing),
		errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
		authError(c, http.StatusBadRequest, err.Error())
		return
	default:
		log.Printf("Sign-up failed: %v", err)
		authError(c, http.StatusInternalServerError, "Signup error")
		return
	}

	ac.logAuth(c, user.ID, "sign_up", true)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// SignIn checks credentials and starts a cookie session.
func (ac *AuthController) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		authError(c, http.StatusBadRequest, "invalid sign-in request: "+err.Error())
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		ac.logAuth(c, "", "sign_in", false)
		authError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Sign-in failed: %v", err)
		authError(c, http.StatusInternalServerError, "Signin error")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for user %s: %v", user.ID, err)
		authError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	ac.logAuth(c, user.ID, "sign_in", true)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// SignOut destroys the session.
func (ac *AuthController) SignOut(c *gin.Context) {
	userID := ac.sessionManager.GetUserID(c.Request)
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		authError(c, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	if userID != "" {
		ac.logAuth(c, userID, "sign_out", true)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated account.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.GetUserByID(c.Request.Context(), GetUserID(c))
	if err != nil {
		authError(c, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"auth_type":  GetAuthType(c),
		"can_borrow": user.IsApproved(),
	})
}

// GenerateToken creates a new API token for the authenticated user.
func (ac *AuthController) GenerateToken(c *gin.Context) {
	token, err := ac.service.GenerateToken(c.Request.Context(), GetUserID(c))
	if err != nil {
		authError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Store this token securely - it will not be shown again",
	})
}

// RevokeToken revokes the API token for the authenticated user.
func (ac *AuthController) RevokeToken(c *gin.Context) {
	if err := ac.service.RevokeToken(c.Request.Context(), GetUserID(c)); err != nil {
		authError(c, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}
