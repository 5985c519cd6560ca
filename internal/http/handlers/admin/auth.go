package admin

import (
	"errors"
	"time"

	"github.com/wellpulse/internal/http/response"
	"github.com/wellpulse/internal/service"

	"github.com/gin-gonic/gin"
)

// forgotPasswordMessage 找回密码统一提示
// 无论邮箱是否存在，响应体必须逐字相同。
const forgotPasswordMessage = "if the email is registered, a verification code has been sent"

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

// Register 注册管理员
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	admin, err := h.AuthService.Register(service.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			respondError(c, response.CodeBadRequest, "username already exists", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "email already exists", nil)
		default:
			respondError(c, response.CodeInternal, "register failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_registered", "admin_id", admin.ID, "username", admin.Username)
	response.Success(c, gin.H{"admin_id": admin.ID})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt string                 `json:"expires_at"`
	Admin     map[string]interface{} `json:"admin"`
}

// Login 管理员登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "invalid username or password", nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}

	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Admin: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword 发起找回密码
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.AuthService.ForgotPassword(req.Email); err != nil {
		respondError(c, response.CodeInternal, "forgot password failed", err)
		return
	}

	response.SuccessWithMsg(c, forgotPasswordMessage, nil)
}

// VerifyOTPRequest 验证码校验请求
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP 校验验证码并下发重置 Token
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	resetToken, err := h.AuthService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeBadRequest, "account not found", nil)
		case errors.Is(err, service.ErrOTPIncorrect):
			respondError(c, response.CodeBadRequest, "incorrect verification code", nil)
		case errors.Is(err, service.ErrOTPExpired):
			respondError(c, response.CodeBadRequest, "verification code expired", nil)
		default:
			respondError(c, response.CodeInternal, "verify otp failed", err)
		}
		return
	}

	response.Success(c, gin.H{"reset_token": resetToken})
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
	ResetToken  string `json:"reset_token" binding:"required"`
}

// ResetPassword 凭重置 Token 设置新密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.AuthService.ResetPassword(req.ResetToken, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			respondError(c, response.CodeForbidden, "invalid or expired reset token", nil)
			return
		}
		respondError(c, response.CodeInternal, "reset password failed", err)
		return
	}

	response.SuccessWithMsg(c, "password has been reset", nil)
}
