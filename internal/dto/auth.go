package dto

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest carries the Google ID token for POST /auth/google
// and PUT /user/connect-google.
type GoogleAuthRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// MessageResponse is the generic {message} envelope used for both
// confirmations and errors.
type MessageResponse struct {
	Message string `json:"message"`
}
