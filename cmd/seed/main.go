package main

import (
	"time"

	"github.com/wellpulse/internal/config"
	"github.com/wellpulse/internal/logger"
	"github.com/wellpulse/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	var count int64
	if err := models.DB.Model(&models.Assessment{}).Count(&count).Error; err != nil {
		stdLog.Fatalf("Failed to count assessments: %v", err)
	}
	if count > 0 {
		stdLog.Printf("Assessments already seeded (%d rows), skipping", count)
		return
	}

	now := time.Now()
	samples := []models.Assessment{
		{
			HoursPerDay:           floatPtr(6.5),
			ShortVideoMinutes:     intPtr(180),
			MainPlatform:          strPtr("douyin"),
			SleepQuality:          intPtr(2),
			Procrastination:       intPtr(4),
			StressLevel:           intPtr(4),
			Performance:           intPtr(2),
			EscapismScore:         floatPtr(0.72),
			SocialConnectionScore: floatPtr(0.35),
			LearningScore:         floatPtr(0.18),
			NegativeImpactLabel:   1,
			CreatedAt:             now.Add(-48 * time.Hour),
		},
		{
			HoursPerDay:           floatPtr(2.0),
			ShortVideoMinutes:     intPtr(30),
			MainPlatform:          strPtr("bilibili"),
			SleepQuality:          intPtr(4),
			Procrastination:       intPtr(2),
			StressLevel:           intPtr(2),
			Performance:           intPtr(4),
			EscapismScore:         floatPtr(0.21),
			SocialConnectionScore: floatPtr(0.66),
			LearningScore:         floatPtr(0.81),
			CreatedAt:             now.Add(-24 * time.Hour),
		},
		{
			HoursPerDay:       floatPtr(4.0),
			ShortVideoMinutes: intPtr(90),
			MainPlatform:      strPtr("xiaohongshu"),
			SleepQuality:      intPtr(3),
			StressLevel:       intPtr(3),
			CreatedAt:         now.Add(-1 * time.Hour),
		},
	}

	for i := range samples {
		if err := models.DB.Create(&samples[i]).Error; err != nil {
			stdLog.Printf("Failed to seed assessment %d: %v", i, err)
			continue
		}
		stdLog.Printf("Seeded assessment id=%d", samples[i].ID)
	}
}
