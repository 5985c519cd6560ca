package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wellpulse/internal/config"
	"github.com/wellpulse/internal/models"
	"github.com/wellpulse/internal/queue"
	"github.com/wellpulse/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpireHours = 4
	cfg.JWT.ResetExpireMinutes = 15
	cfg.Email.OTP.ExpireMinutes = 10
	cfg.Email.OTP.Length = 6

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	svc := NewAuthService(cfg, repository.NewAdminRepository(db), queueClient, NewEmailService(&cfg.Email))
	return svc, db, cfg
}

func registerTestAdmin(t *testing.T, svc *AuthService, username, email, password string) *models.Admin {
	t.Helper()
	admin, err := svc.Register(RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return admin
}

func loadTestAdmin(t *testing.T, db *gorm.DB, id uint) *models.Admin {
	t.Helper()
	var admin models.Admin
	if err := db.First(&admin, id).Error; err != nil {
		t.Fatalf("load admin failed: %v", err)
	}
	return &admin
}

func TestRegisterAndDuplicateChecks(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)

	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")
	if admin.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}
	stored := loadTestAdmin(t, db, admin.ID)
	if stored.PasswordHash == "s3cret-pass" {
		t.Fatalf("password stored in plaintext")
	}
	if err := svc.VerifyPassword(stored.PasswordHash, "s3cret-pass"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "x"}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Username: "bob", Email: "alice@example.com", Password: "x"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterHashesSecurityAnswer(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)

	admin, err := svc.Register(RegisterInput{
		Username:         "carol",
		Email:            "carol@example.com",
		Password:         "pass-word",
		SecurityQuestion: "first pet",
		SecurityAnswer:   "goldfish",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored := loadTestAdmin(t, db, admin.ID)
	if stored.SecurityQuestion == nil || *stored.SecurityQuestion != "first pet" {
		t.Fatalf("security question not stored: %+v", stored.SecurityQuestion)
	}
	if stored.SecurityAnswerHash == nil || *stored.SecurityAnswerHash == "goldfish" {
		t.Fatalf("security answer must be stored hashed")
	}
	if err := svc.VerifyPassword(*stored.SecurityAnswerHash, "goldfish"); err != nil {
		t.Fatalf("answer hash does not verify: %v", err)
	}
}

func TestLoginIssuesSessionToken(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")

	admin, token, expiresAt, err := svc.Login("alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	remaining := time.Until(expiresAt)
	if remaining < 3*time.Hour+55*time.Minute || remaining > 4*time.Hour+5*time.Minute {
		t.Fatalf("unexpected session lifetime: %v", remaining)
	}

	claims, err := svc.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("parse session token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	stored := loadTestAdmin(t, db, admin.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("expected last_login_at updated")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")

	if _, _, _, err := svc.Login("alice", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")

	if err := svc.ForgotPassword("nobody@example.com"); err != nil {
		t.Fatalf("forgot password must not fail for unknown email: %v", err)
	}

	var count int64
	db.Model(&models.Admin{}).Where("reset_otp IS NOT NULL").Count(&count)
	if count != 0 {
		t.Fatalf("no OTP should be written for unknown email, got %d rows", count)
	}
}

func TestForgotPasswordStoresOTP(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")

	if err := svc.ForgotPassword("alice@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	stored := loadTestAdmin(t, db, admin.ID)
	if stored.ResetOTP == nil {
		t.Fatalf("expected OTP stored")
	}
	if len(*stored.ResetOTP) != 6 {
		t.Fatalf("expected 6-digit OTP, got %q", *stored.ResetOTP)
	}
	for _, ch := range *stored.ResetOTP {
		if ch < '0' || ch > '9' {
			t.Fatalf("OTP contains non-digit: %q", *stored.ResetOTP)
		}
	}
	if stored.OTPExpireAt == nil || !stored.OTPExpireAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %+v", stored.OTPExpireAt)
	}
}

func setTestOTP(t *testing.T, db *gorm.DB, id uint, code string, expireAt time.Time) {
	t.Helper()
	err := db.Model(&models.Admin{}).Where("id = ?", id).
		Updates(map[string]interface{}{"reset_otp": code, "otp_expire_at": expireAt}).Error
	if err != nil {
		t.Fatalf("set otp failed: %v", err)
	}
}

func TestVerifyOTPIssuesResetToken(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")
	setTestOTP(t, db, admin.ID, "004521", time.Now().Add(10*time.Minute))

	if _, err := svc.VerifyOTP("nobody@example.com", "004521"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
	if _, err := svc.VerifyOTP("alice@example.com", "999999"); !errors.Is(err, ErrOTPIncorrect) {
		t.Fatalf("expected ErrOTPIncorrect for wrong code, got %v", err)
	}
	// 前导零参与比对，截断后的数值形式不被接受。
	if _, err := svc.VerifyOTP("alice@example.com", "4521"); !errors.Is(err, ErrOTPIncorrect) {
		t.Fatalf("expected ErrOTPIncorrect for truncated code, got %v", err)
	}

	token, err := svc.VerifyOTP("alice@example.com", "004521")
	if err != nil {
		t.Fatalf("verify otp failed: %v", err)
	}
	claims, err := svc.ParseResetToken(token)
	if err != nil {
		t.Fatalf("parse reset token failed: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Fatalf("unexpected admin id in reset token: %d", claims.AdminID)
	}

	// 默认配置下验证码在有效期内可重复兑换。
	if _, err := svc.VerifyOTP("alice@example.com", "004521"); err != nil {
		t.Fatalf("expected OTP to remain redeemable, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")
	setTestOTP(t, db, admin.ID, "123456", time.Now().Add(-1*time.Minute))

	if _, err := svc.VerifyOTP("alice@example.com", "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestVerifyOTPSingleUse(t *testing.T) {
	svc, db, cfg := setupAuthServiceTest(t)
	cfg.Security.OTPSingleUse = true
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")
	setTestOTP(t, db, admin.ID, "123456", time.Now().Add(10*time.Minute))

	if _, err := svc.VerifyOTP("alice@example.com", "123456"); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if _, err := svc.VerifyOTP("alice@example.com", "123456"); !errors.Is(err, ErrOTPIncorrect) {
		t.Fatalf("expected ErrOTPIncorrect after single-use consumption, got %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "old-pass")
	setTestOTP(t, db, admin.ID, "654321", time.Now().Add(10*time.Minute))

	token, err := svc.VerifyOTP("alice@example.com", "654321")
	if err != nil {
		t.Fatalf("verify otp failed: %v", err)
	}
	if err := svc.ResetPassword(token, "new-pass"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}

	stored := loadTestAdmin(t, db, admin.ID)
	if stored.ResetOTP != nil || stored.OTPExpireAt != nil {
		t.Fatalf("expected OTP cleared after reset, got %+v %+v", stored.ResetOTP, stored.OTPExpireAt)
	}

	if _, _, _, err := svc.Login("alice", "old-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, _, _, err := svc.Login("alice", "new-pass"); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}
}

func TestResetPasswordRejectsWrongToken(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")

	if err := svc.ResetPassword("not-a-jwt", "new-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken for garbage token, got %v", err)
	}

	// 会话 Token 缺少 purpose 声明，不能用于重置密码。
	sessionToken, _, err := svc.GenerateSessionToken(admin)
	if err != nil {
		t.Fatalf("generate session token failed: %v", err)
	}
	if err := svc.ResetPassword(sessionToken, "new-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken for session token, got %v", err)
	}
}

func TestResetPasswordRejectsDeletedAccount(t *testing.T) {
	svc, db, _ := setupAuthServiceTest(t)
	admin := registerTestAdmin(t, svc, "alice", "alice@example.com", "s3cret-pass")

	resetToken, err := svc.GenerateResetToken(admin.ID)
	if err != nil {
		t.Fatalf("generate reset token failed: %v", err)
	}

	// Token 有效期内账号被删除，重置必须被拒绝。
	if err := db.Delete(&models.Admin{}, admin.ID).Error; err != nil {
		t.Fatalf("delete admin failed: %v", err)
	}
	if err := svc.ResetPassword(resetToken, "new-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken for deleted account, got %v", err)
	}
}

func TestRandomNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomNumericCode(6)
		if err != nil {
			t.Fatalf("random code failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 chars, got %q", code)
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}
