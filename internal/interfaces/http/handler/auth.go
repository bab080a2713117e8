package handler

import (
	identityapp "github.com/eightysix/analytics/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves the account flows under /api/auth
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(base BaseHandler, auth *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, auth: auth}
}

// SignUp handles POST /auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identityapp.SignUpRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// SignUpVerification handles POST /auth/sign-up-verification
func (h *AuthHandler) SignUpVerification(c *gin.Context) {
	var req identityapp.SignUpVerificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.auth.VerifySignUp(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"verified": true})
}

// SignIn handles POST /auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.auth.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// SignOut handles POST /auth/sign-out for the authenticated caller
func (h *AuthHandler) SignOut(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"signed_out": true})
}

// PasswordReset handles POST /auth/password-reset
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req identityapp.PasswordResetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.auth.PasswordReset(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"code_sent": true})
}

// PasswordConfirm handles POST /auth/password-confirm
func (h *AuthHandler) PasswordConfirm(c *gin.Context) {
	var req identityapp.PasswordConfirmRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.auth.PasswordConfirm(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"password_changed": true})
}
