package models

import "time"

// Assessment 数字健康自评问卷记录
// 所有评分字段均为客户端自报数值，服务端不做计算或校验，
// 记录只追加、不更新、不删除。
type Assessment struct {
	ID                    uint       `gorm:"primarykey" json:"id"`           // 主键
	HoursPerDay           *float64   `json:"hours_per_day"`                  // 日均上网小时数
	ShortVideoMinutes     *int       `json:"short_video_minutes"`            // 短视频分钟数
	MainPlatform          *string    `json:"main_platform"`                  // 主要使用平台
	SleepQuality          *int       `json:"sleep_quality"`                  // 睡眠质量
	Procrastination       *int       `json:"procrastination"`                // 拖延程度
	StressLevel           *int       `json:"stress_level"`                   // 压力水平
	Performance           *int       `json:"performance"`                    // 学业/工作表现
	EscapismScore         *float64   `json:"escapism_score"`                 // 逃避倾向得分
	SocialConnectionScore *float64   `json:"social_connection_score"`        // 社交联结得分
	LearningScore         *float64   `json:"learning_score"`                 // 学习收益得分
	NegativeImpactLabel   int        `gorm:"default:0" json:"negative_impact_label"` // 负面影响标记
	CreatedAt             time.Time  `gorm:"index" json:"created_at"`        // 提交时间
}

// TableName 指定表名
func (Assessment) TableName() string {
	return "assessments"
}
