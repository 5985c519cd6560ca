package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/wellpulse/internal/config"
	"github.com/wellpulse/internal/logger"
	"github.com/wellpulse/internal/models"
	"github.com/wellpulse/internal/queue"
	"github.com/wellpulse/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenPurpose 重置 Token 的用途声明值
// 解析时强校验，防止会话 Token 被拿来重置密码。
const resetTokenPurpose = "password_reset"

// AuthService 管理员认证与找回密码服务
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	queue     *queue.Client
	email     *EmailService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository, queueClient *queue.Client, email *EmailService) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
		queue:     queueClient,
		email:     email,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// SessionClaims 会话 Token 声明
type SessionClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateSessionToken 生成会话 Token
func (s *AuthService) GenerateSessionToken(admin *models.Admin) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := SessionClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseSessionToken 解析会话 Token
func (s *AuthService) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}

// ResetClaims 重置 Token 声明
type ResetClaims struct {
	AdminID uint   `json:"admin_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateResetToken 生成密码重置 Token
// 有效期远短于会话 Token，由 jwt.reset_expire_minutes 控制。
func (s *AuthService) GenerateResetToken(adminID uint) (string, error) {
	minutes := s.cfg.JWT.ResetExpireMinutes
	if minutes <= 0 {
		minutes = 15
	}
	expiresAt := time.Now().Add(time.Duration(minutes) * time.Minute)

	claims := ResetClaims{
		AdminID: adminID,
		Purpose: resetTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

// ParseResetToken 解析密码重置 Token
// 签名错误、已过期、用途不符统一返回 ErrInvalidResetToken，不向调用方区分。
func (s *AuthService) ParseResetToken(tokenString string) (*ResetClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidResetToken
	}
	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidResetToken
	}
	if claims.Purpose != resetTokenPurpose {
		return nil, ErrInvalidResetToken
	}
	return claims, nil
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	SecurityQuestion string
	SecurityAnswer   string
}

// Register 注册管理员账号
func (s *AuthService) Register(input RegisterInput) (*models.Admin, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	existing, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}
	existing, err = s.adminRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if question := strings.TrimSpace(input.SecurityQuestion); question != "" {
		admin.SecurityQuestion = &question
	}
	if answer := strings.TrimSpace(input.SecurityAnswer); answer != "" {
		answerHash, err := s.HashPassword(answer)
		if err != nil {
			return nil, err
		}
		admin.SecurityAnswerHash = &answerHash
	}

	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login 管理员登录
// 用户名不存在与密码错误返回同一个错误，避免账号枚举。
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateSessionToken(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(admin.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	admin.LastLoginAt = &now

	return admin, token, expiresAt, nil
}

// ForgotPassword 发起找回密码
// 无论邮箱是否存在均返回 nil，响应体不得泄露账号存在性；
// 邮件投递为尽力而为，失败不影响接口返回。
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.TrimSpace(email)

	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if admin == nil {
		return nil
	}

	code, err := randomNumericCode(s.otpLength())
	if err != nil {
		return err
	}
	expireAt := time.Now().Add(time.Duration(s.otpExpireMinutes()) * time.Minute)
	if err := s.adminRepo.SetResetOTP(admin.Email, code, expireAt); err != nil {
		return err
	}

	s.dispatchResetOTP(admin.Email, code)
	return nil
}

// VerifyOTP 校验验证码并签发重置 Token
func (s *AuthService) VerifyOTP(email, code string) (string, error) {
	email = strings.TrimSpace(email)

	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", ErrNotFound
	}

	// 验证码逐字符精确比对，"004521" 与 "4521" 不等价。
	if admin.ResetOTP == nil || *admin.ResetOTP != code {
		return "", ErrOTPIncorrect
	}
	if admin.OTPExpireAt == nil || time.Now().After(*admin.OTPExpireAt) {
		return "", ErrOTPExpired
	}

	token, err := s.GenerateResetToken(admin.ID)
	if err != nil {
		return "", err
	}

	if s.cfg.Security.OTPSingleUse {
		if err := s.adminRepo.ClearResetOTP(admin.ID); err != nil {
			return "", err
		}
	}
	return token, nil
}

// ResetPassword 凭重置 Token 设置新密码
// 密码更新与验证码清除由仓库层在同一条 UPDATE 中完成。
func (s *AuthService) ResetPassword(resetToken, newPassword string) error {
	claims, err := s.ParseResetToken(resetToken)
	if err != nil {
		return err
	}

	// Token 指向的账号可能在签发后被删除。
	admin, err := s.adminRepo.GetByID(claims.AdminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrInvalidResetToken
	}

	passwordHash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.adminRepo.UpdatePasswordClearOTP(claims.AdminID, passwordHash)
}

// dispatchResetOTP 投递验证码邮件
// 优先走异步队列；队列未启用或推送失败时退化为后台直发，
// 任何失败只记日志，不回传给发起找回的请求。
func (s *AuthService) dispatchResetOTP(email, code string) {
	payload := queue.ResetOTPEmailPayload{
		Email:         email,
		Code:          code,
		ExpireMinutes: s.otpExpireMinutes(),
	}
	if s.queue.Enabled() {
		err := s.queue.EnqueueResetOTPEmail(payload)
		if err == nil {
			return
		}
		logger.Warnw("reset_otp_enqueue_failed", "error", err)
	}
	go func() {
		err := s.email.SendResetOTP(payload.Email, payload.Code, payload.ExpireMinutes)
		if err == nil {
			return
		}
		if errors.Is(err, ErrEmailServiceDisabled) || errors.Is(err, ErrEmailServiceNotConfigured) {
			// 本地部署常不配 SMTP，验证码落库后走日志取用。
			logger.Infow("reset_otp_email_skipped", "reason", err.Error(), "email", payload.Email)
			return
		}
		logger.Warnw("reset_otp_email_failed", "email", payload.Email, "error", err)
	}()
}

func (s *AuthService) otpExpireMinutes() int {
	minutes := s.cfg.Email.OTP.ExpireMinutes
	if minutes <= 0 {
		minutes = 10
	}
	return minutes
}

func (s *AuthService) otpLength() int {
	length := s.cfg.Email.OTP.Length
	if length <= 0 {
		length = 6
	}
	return length
}

// randomNumericCode 生成定长数字验证码
// 逐位取随机数，允许前导零，码空间为 10^length。
func randomNumericCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
