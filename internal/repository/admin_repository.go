package repository

import (
	"errors"
	"time"

	"github.com/wellpulse/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	GetByUsername(username string) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
	GetByID(id uint) (*models.Admin, error)
	Create(admin *models.Admin) error
	UpdateLastLogin(id uint, at time.Time) error
	SetResetOTP(email, code string, expireAt time.Time) error
	ClearResetOTP(id uint) error
	UpdatePasswordClearOTP(id uint, passwordHash string) error
}

// GormAdminRepository GORM 实现
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓库
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByUsername 根据用户名获取管理员
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByEmail 根据邮箱获取管理员
func (r *GormAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByID 根据 ID 获取管理员
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// Create 创建管理员
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

// UpdateLastLogin 记录最后登录时间
// 只更新该列；整行 Save 会把读出快照里过期的 reset_otp 写回去，
// 覆盖并发找回请求刚落库的验证码。
func (r *GormAdminRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// SetResetOTP 写入找回验证码
// 验证码与过期时间在同一条 UPDATE 中落库；邮箱不存在时静默成功，
// 调用方不得据此区分账号是否存在。
func (r *GormAdminRepository) SetResetOTP(email, code string, expireAt time.Time) error {
	return r.db.Model(&models.Admin{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"reset_otp":     code,
			"otp_expire_at": expireAt,
		}).Error
}

// ClearResetOTP 清除找回验证码
func (r *GormAdminRepository) ClearResetOTP(id uint) error {
	return r.db.Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_otp":     nil,
			"otp_expire_at": nil,
		}).Error
}

// UpdatePasswordClearOTP 更新密码并清除验证码
// 密码写入与验证码清空必须原子完成，使用单条 UPDATE 保证。
func (r *GormAdminRepository) UpdatePasswordClearOTP(id uint, passwordHash string) error {
	return r.db.Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"reset_otp":     nil,
			"otp_expire_at": nil,
		}).Error
}
