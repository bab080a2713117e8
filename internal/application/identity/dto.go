package identity

// SignUpRequest registers a supplier account
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=256"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
	Name     string `json:"name" binding:"required,max=255"`
}

// SignUpResponse reports the created account
type SignUpResponse struct {
	UserID        int64  `json:"user_id"`
	UserSub       string `json:"user_sub"`
	UserConfirmed bool   `json:"user_confirmed"`
}

// SignUpVerificationRequest confirms a registration code
type SignUpVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,max=64"`
}

// SignInRequest exchanges credentials for tokens
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse carries the issued tokens and the local user id
type SignInResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int32  `json:"expires_in"`
	UserID       int64  `json:"user_id"`
}

// PasswordResetRequest starts a password reset
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordConfirmRequest completes a password reset
type PasswordConfirmRequest struct {
	Email            string `json:"email" binding:"required,email"`
	NewPassword      string `json:"new_password" binding:"required,min=8,max=256"`
	VerificationCode string `json:"verification_code" binding:"required,max=64"`
}
