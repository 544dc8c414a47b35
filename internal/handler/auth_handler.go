package handler

import (
	"botdash/gateway/internal/service"
	"botdash/gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, logout and password reset
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, result)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), sess.ID); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Signed out")
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	util.SendSuccess(c, gin.H{"username": sess.Username})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "If the address exists, a reset email has been sent")
}

// ResetPassword handles POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	// Mismatch is caught here, before any upstream call
	if req.Password != req.ConfirmPassword {
		util.SendError(c, util.ErrValidation("Passwords do not match"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Password has been reset")
}
