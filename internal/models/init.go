package models

import (
	"strings"

	"github.com/wellpulse/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
// 仅在 admins 表为空且提供了密码时创建；注册接口本身无鉴权（见 router），
// 该函数只是方便单机部署时跳过首次注册。
func InitDefaultAdmin(username, email, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(password) == "" {
		logger.Warnw("default_admin_skip_empty_password")
		return nil
	}
	if username == "" {
		username = "admin"
	}
	if email == "" {
		email = "admin@localhost"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warnw("default_admin_created", "username", username, "email", admin.Email)
	return nil
}
