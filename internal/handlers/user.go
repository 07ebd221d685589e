package handlers

import (
	"errors"
	"net/http"

	"medreport/internal/auth"
	"medreport/internal/dto"
	"medreport/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles profile reads and updates for the authenticated user.
type UserHandler struct {
	authSvc *service.AuthService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(authSvc *service.AuthService) *UserHandler {
	return &UserHandler{authSvc: authSvc}
}

// GetProfile godoc
// @Summary      Get the authenticated user's profile
// @Tags         user
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /user/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.authSvc.GetProfile(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		HasPassword:       u.HasPassword(),
		IsGoogleConnected: u.IsGoogleConnected(),
	})
}

// UpdateProfile godoc
// @Summary      Update the display name
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body  dto.UpdateProfileRequest  true  "New name"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /user/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	err := h.authSvc.UpdateName(c.Request.Context(), auth.UserIDFromContext(c), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Name updated successfully!"})
}

// ChangePassword godoc
// @Summary      Set or change the account password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "Password change"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /user/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	created, err := h.authSvc.SetOrChangePassword(c.Request.Context(), auth.UserIDFromContext(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long."})
		case errors.Is(err, service.ErrMissingCurrentPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is required."})
		case errors.Is(err, service.ErrIncorrectPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is incorrect."})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		}
		return
	}
	if created {
		c.JSON(http.StatusOK, gin.H{"message": "Password created successfully! You can now log in with email and password."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully!"})
}

// ConnectGoogle godoc
// @Summary      Link a Google account to the authenticated user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body  dto.GoogleAuthRequest  true  "Google credential"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /user/connect-google [put]
func (h *UserHandler) ConnectGoogle(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	err := h.authSvc.ConnectGoogle(c.Request.Context(), auth.UserIDFromContext(c), req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Google authentication failed."})
		case errors.Is(err, service.ErrEmailMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Google account email does not match your account email."})
		case errors.Is(err, service.ErrGoogleTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "This Google account is already linked to another user."})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Google account connected successfully!"})
}
