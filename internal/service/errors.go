package service

import "errors"

// 业务哨兵错误，由 handler 映射为接口错误响应。
var (
	// ErrInvalidCredentials 登录失败
	// 用户名不存在与密码错误统一返回该错误，避免账号枚举。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameExists 用户名已被占用
	ErrUsernameExists = errors.New("username already exists")
	// ErrEmailExists 邮箱已被占用
	ErrEmailExists = errors.New("email already exists")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrOTPIncorrect 验证码为空或不匹配
	ErrOTPIncorrect = errors.New("otp incorrect")
	// ErrOTPExpired 验证码已过期
	ErrOTPExpired = errors.New("otp expired")
	// ErrInvalidResetToken 重置 Token 无效或已过期
	// 签名错误与自然过期不向调用方区分。
	ErrInvalidResetToken = errors.New("invalid reset token")
	// ErrInvalidEmail 邮箱地址格式非法
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrEmailServiceDisabled 邮件服务未启用
	ErrEmailServiceDisabled = errors.New("email service disabled")
	// ErrEmailServiceNotConfigured 邮件服务缺少必要配置
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
)
