package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// LoginChallenge handles the challenge issuance request
func (h *AuthHandlers) LoginChallenge(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId in request body"})
		return
	}

	challenge, err := h.authService.IssueChallenge(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, core.ErrIdentityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found or certificate missing"})
			return
		}

		log.Printf("issue challenge for %q: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error generating challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

// VerifyLogin handles the signed-challenge verification request
func (h *AuthHandlers) VerifyLogin(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId" binding:"required"`
		Challenge string `json:"challenge" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId, challenge, or signature"})
		return
	}

	token, err := h.authService.VerifyLogin(c.Request.Context(), req.UserID, req.Challenge, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrChallengeMissingOrExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login challenge expired or invalid. Please try again."})
		case errors.Is(err, core.ErrChallengeMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid challenge submitted."})
		case errors.Is(err, core.ErrSignatureInvalid), errors.Is(err, core.ErrVerification):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature."})
		case errors.Is(err, core.ErrIdentityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found or certificate missing."})
		default:
			log.Printf("verify login for %q: %v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during verification"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Profile returns the identity record of the authenticated user
func (h *AuthHandlers) Profile(c *gin.Context) {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication data missing."})
		return
	}

	identity, err := h.authService.Profile(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, core.ErrIdentityNotFound) {
			// Authenticated via token but no directory record; unusual
			c.JSON(http.StatusNotFound, gin.H{"error": "User profile data not found."})
			return
		}

		log.Printf("fetch profile for %q: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user profile."})
		return
	}

	c.JSON(http.StatusOK, identity)
}

// Authorize reports success for any request that passed the auth middleware
func (h *AuthHandlers) Authorize(c *gin.Context) {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication data missing."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"userId":     userID,
	})
}
