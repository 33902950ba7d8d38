package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guyghost/wakeve-auth/domain"
	"github.com/guyghost/wakeve-auth/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc     domain.AuthService
	otpSvc      domain.OTPService
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	sessionMgr  domain.SessionManager
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(
	authSvc domain.AuthService,
	otpSvc domain.OTPService,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	sessionMgr domain.SessionManager,
) *AuthHandlers {
	return &AuthHandlers{
		authSvc:     authSvc,
		otpSvc:      otpSvc,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionMgr:  sessionMgr,
	}
}

// LoginRequest represents an OAuth login request
type LoginRequest struct {
	Provider string `json:"provider" binding:"required,oneof=GOOGLE APPLE"`
	Code     string `json:"authorizationCode" binding:"required"`
}

// OTPSendRequest represents an OTP delivery request
type OTPSendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// OTPVerifyRequest represents an OTP verification request
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login handles OAuth login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.LoginWithOAuth(c.Request.Context(), domain.AuthMethod(req.Provider), req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Provider sign-in failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponse(result))
}

// SendOTP handles OTP generation and delivery
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req OTPSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.otpSvc.Generate(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrOTPResendLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "OTP sent successfully",
		},
	})
}

// VerifyOTP handles OTP verification and session issuance
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.LoginWithEmailOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPExpired), errors.Is(err, domain.ErrOTPNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP has expired"})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded"})
		case errors.Is(err, domain.ErrOTPInvalid):
			body := gin.H{"error": "Invalid OTP code"}
			var attErr *domain.OTPAttemptError
			if errors.As(err, &attErr) {
				body["attempts_remaining"] = attErr.Remaining
			}
			c.JSON(http.StatusBadRequest, body)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "OTP verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse(result))
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionRevoked):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session revoked or expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
		},
	})
}

// Logout revokes the session behind the presented access token
func (h *AuthHandlers) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextAccessToken)

	session, err := h.sessionRepo.FindByAccessToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}

	if err := h.sessionMgr.RevokeSession(c.Request.Context(), session.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := h.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":            user.ID,
			"email":         user.Email,
			"name":          user.Name,
			"auth_method":   user.AuthMethod,
			"created_at":    user.CreatedAt,
			"last_login_at": user.LastLoginAt,
		},
	})
}

func loginResponse(result *domain.LoginResult) gin.H {
	return gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"session_id":    result.SessionID,
			"user": gin.H{
				"id":          result.User.ID,
				"email":       result.User.Email,
				"name":        result.User.Name,
				"auth_method": result.User.AuthMethod,
			},
		},
	}
}
