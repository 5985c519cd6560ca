package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/wellpulse/internal/logger"
	"github.com/wellpulse/internal/provider"
	"github.com/wellpulse/internal/queue"
	"github.com/wellpulse/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskResetOTPEmail, c.handleResetOTPEmail)
}

func (c *Consumer) handleResetOTPEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reset_otp_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ResetOTPEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reset_otp_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Code == "" {
		logger.Debugw("worker_reset_otp_email_skip_invalid_payload", "email", email)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_reset_otp_email_skip_email_service_nil", "email", email)
		return nil
	}
	err := c.EmailService.SendResetOTP(email, payload.Code, payload.ExpireMinutes)
	if err == nil {
		logger.Infow("worker_reset_otp_email_sent", "email", email)
		return nil
	}
	// 邮件服务未配置属于部署形态问题，重试也不会成功。
	if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) || errors.Is(err, service.ErrInvalidEmail) {
		logger.Infow("worker_reset_otp_email_skipped", "email", email, "reason", err.Error())
		return nil
	}
	logger.Warnw("worker_reset_otp_email_send_failed", "email", email, "error", err)
	return err
}
