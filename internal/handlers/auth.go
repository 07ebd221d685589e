package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"medreport/internal/dto"
	"medreport/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and Google sign-in.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup godoc
// @Summary      Sign up with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "New account"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.authSvc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists."})
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and password are required."})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during signup."})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("User %s created successfully!", u.Name)})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login."})
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Message: "Login successful!", Token: token})
}

// GoogleLogin godoc
// @Summary      Sign in with a Google ID token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GoogleAuthRequest  true  "Google credential"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	token, err := h.authSvc.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken), errors.Is(err, service.ErrGoogleTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Google authentication failed."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during Google sign-in."})
		}
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Message: "Google sign-in successful!", Token: token})
}
