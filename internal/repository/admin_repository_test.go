package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/wellpulse/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminRepoTest(t *testing.T) (*GormAdminRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:admin_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewAdminRepository(db), db
}

func TestUpdateLastLoginKeepsConcurrentOTP(t *testing.T) {
	repo, db := setupAdminRepoTest(t)

	admin := &models.Admin{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	// 登录流程先读出一份快照，随后找回密码写入验证码。
	stale, err := repo.GetByUsername("alice")
	if err != nil || stale == nil {
		t.Fatalf("load snapshot failed: %v", err)
	}
	expireAt := time.Now().Add(10 * time.Minute)
	if err := repo.SetResetOTP("alice@example.com", "004521", expireAt); err != nil {
		t.Fatalf("set otp failed: %v", err)
	}

	// 登录收尾只允许触碰 last_login_at，不得把快照写回整行。
	now := time.Now()
	if err := repo.UpdateLastLogin(stale.ID, now); err != nil {
		t.Fatalf("update last login failed: %v", err)
	}

	var reloaded models.Admin
	if err := db.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if reloaded.ResetOTP == nil || *reloaded.ResetOTP != "004521" {
		t.Fatalf("concurrent OTP must survive login, got %+v", reloaded.ResetOTP)
	}
	if reloaded.OTPExpireAt == nil {
		t.Fatalf("otp expiry must survive login")
	}
	if reloaded.LastLoginAt == nil {
		t.Fatalf("last_login_at should be set")
	}
}

func TestSetResetOTPOverwritesPrevious(t *testing.T) {
	repo, db := setupAdminRepoTest(t)

	admin := &models.Admin{Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}
	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	first := time.Now().Add(5 * time.Minute)
	second := time.Now().Add(10 * time.Minute)
	if err := repo.SetResetOTP("bob@example.com", "111111", first); err != nil {
		t.Fatalf("first set otp failed: %v", err)
	}
	if err := repo.SetResetOTP("bob@example.com", "222222", second); err != nil {
		t.Fatalf("second set otp failed: %v", err)
	}

	var reloaded models.Admin
	if err := db.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if reloaded.ResetOTP == nil || *reloaded.ResetOTP != "222222" {
		t.Fatalf("latest OTP should win, got %+v", reloaded.ResetOTP)
	}
}
