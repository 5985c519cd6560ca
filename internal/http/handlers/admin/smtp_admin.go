package admin

import (
	"errors"

	"github.com/wellpulse/internal/http/response"
	"github.com/wellpulse/internal/service"

	"github.com/gin-gonic/gin"
)

// SMTPTestRequest SMTP 测试邮件请求
type SMTPTestRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SMTPTest 发送 SMTP 测试邮件 (Admin)
// 同步发送并把结果直接回给调用方，便于排查 SMTP 配置。
func (h *Handler) SMTPTest(c *gin.Context) {
	var req SMTPTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.EmailService.SendCustomEmail(req.Email, req.Subject, req.Body); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled):
			respondError(c, response.CodeBadRequest, "email service is disabled", nil)
		case errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeBadRequest, "email service is not configured", nil)
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		default:
			respondError(c, response.CodeInternal, "send test email failed", err)
		}
		return
	}

	requestLog(c).Infow("smtp_test_sent", "email", req.Email)
	response.SuccessWithMsg(c, "test email sent", nil)
}
