package dto

// ProfileResponse is returned by GET /user/profile. The password hash is
// never exposed, only whether one exists.
type ProfileResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	HasPassword       bool   `json:"hasPassword"`
	IsGoogleConnected bool   `json:"isGoogleConnected"`
}

// UpdateProfileRequest is the JSON body for PUT /user/profile.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// ChangePasswordRequest is the JSON body for PUT /user/password.
// CurrentPassword is omitted when the account has no password yet.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
