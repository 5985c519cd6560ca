package worker

import (
	"context"
	"testing"

	"github.com/wellpulse/internal/config"
	"github.com/wellpulse/internal/provider"
	"github.com/wellpulse/internal/queue"
	"github.com/wellpulse/internal/service"

	"github.com/hibiken/asynq"
)

func newTestConsumer(emailCfg *config.EmailConfig) *Consumer {
	return NewConsumer(&provider.Container{
		Config:       &config.Config{},
		EmailService: service.NewEmailService(emailCfg),
	})
}

func TestHandleResetOTPEmailInvalidPayload(t *testing.T) {
	consumer := newTestConsumer(&config.EmailConfig{})

	task := asynq.NewTask(queue.TaskResetOTPEmail, []byte("not-json"))
	if err := consumer.handleResetOTPEmail(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandleResetOTPEmailSkipEmptyFields(t *testing.T) {
	consumer := newTestConsumer(&config.EmailConfig{})

	task, err := queue.NewResetOTPEmailTask(queue.ResetOTPEmailPayload{Email: "   ", Code: ""})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleResetOTPEmail(context.Background(), task); err != nil {
		t.Fatalf("empty payload should be dropped without retry, got %v", err)
	}
}

func TestHandleResetOTPEmailServiceDisabled(t *testing.T) {
	// 邮件服务未启用时任务直接丢弃，不进入 asynq 重试。
	consumer := newTestConsumer(&config.EmailConfig{Enabled: false})

	task, err := queue.NewResetOTPEmailTask(queue.ResetOTPEmailPayload{
		Email:         "alice@example.com",
		Code:          "123456",
		ExpireMinutes: 10,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleResetOTPEmail(context.Background(), task); err != nil {
		t.Fatalf("disabled email service should not trigger retry, got %v", err)
	}
}
