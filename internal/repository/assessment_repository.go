package repository

import (
	"github.com/wellpulse/internal/models"

	"gorm.io/gorm"
)

// AssessmentRepository 问卷记录数据访问接口
type AssessmentRepository interface {
	Create(assessment *models.Assessment) error
	ListRecent(limit int) ([]models.Assessment, error)
	Count() (int64, error)
}

// GormAssessmentRepository GORM 实现
type GormAssessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository 创建问卷仓库
func NewAssessmentRepository(db *gorm.DB) *GormAssessmentRepository {
	return &GormAssessmentRepository{db: db}
}

// Create 追加一条问卷记录
func (r *GormAssessmentRepository) Create(assessment *models.Assessment) error {
	return r.db.Create(assessment).Error
}

// ListRecent 按提交时间倒序读取，最多 limit 条
func (r *GormAssessmentRepository) ListRecent(limit int) ([]models.Assessment, error) {
	rows := make([]models.Assessment, 0)
	err := r.db.
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count 统计记录总数
func (r *GormAssessmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Assessment{}).Count(&count).Error
	return count, err
}
