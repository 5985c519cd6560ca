package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 管理员表
// ResetOTP 与 OTPExpireAt 属于易失字段：发起找回时写入、
// 重置成功后清空，二者必须在同一条语句中一起变更。
type Admin struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                 // 主键
	Username           string         `gorm:"uniqueIndex;not null" json:"username"` // 管理员账号
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`    // 找回密码邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	SecurityQuestion   *string        `json:"security_question"`                    // 密保问题（可选）
	SecurityAnswerHash *string        `json:"-"`                                    // 密保答案哈希（不返回给前端）
	ResetOTP           *string        `json:"-"`                                    // 当前找回验证码
	OTPExpireAt        *time.Time     `json:"-"`                                    // 验证码过期时间
	LastLoginAt        *time.Time     `json:"last_login_at"`                        // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                           // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
