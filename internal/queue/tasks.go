package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskResetOTPEmail 找回密码验证码邮件任务
	TaskResetOTPEmail = "email:reset_otp"
)

// ResetOTPEmailPayload 找回密码验证码邮件任务载荷
type ResetOTPEmailPayload struct {
	Email         string `json:"email"`
	Code          string `json:"code"`
	ExpireMinutes int    `json:"expire_minutes"`
}

// NewResetOTPEmailTask 创建找回密码验证码邮件任务
func NewResetOTPEmailTask(payload ResetOTPEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskResetOTPEmail, body), nil
}
