package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/vestra-shop/internal/cache"
	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const passwordResetTokenTTL = 15 * time.Minute

// OTPStore 验证码存储（Redis 实现见 cache.OTPStore）
type OTPStore interface {
	Save(ctx context.Context, purpose, email, hash string, ttl time.Duration) error
	Get(ctx context.Context, purpose, email string) (*cache.OTPRecord, bool, error)
	IncrAttempts(ctx context.Context, purpose, email string) (int, error)
	Delete(ctx context.Context, purpose, email string) error
}

// PasswordResetService 密码重置验证码服务
type PasswordResetService struct {
	store    OTPStore
	userRepo repository.UserRepository
	email    *EmailService
	tokens   *TokenService
	cfg      config.OTPConfig
	cost     int
	codeGen  func(length int) string
}

// NewPasswordResetService 创建密码重置服务
func NewPasswordResetService(store OTPStore, userRepo repository.UserRepository, email *EmailService, tokens *TokenService, cfg config.OTPConfig) *PasswordResetService {
	if cfg.TTLSeconds <= 0 {
		cfg.TTLSeconds = 600
	}
	if cfg.Length < 4 || cfg.Length > 10 {
		cfg.Length = 6
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &PasswordResetService{
		store:    store,
		userRepo: userRepo,
		email:    email,
		tokens:   tokens,
		cfg:      cfg,
		cost:     bcrypt.DefaultCost,
		codeGen:  randNumeric,
	}
}

// PasswordResetResult 验证通过后签发的重置凭证
type PasswordResetResult struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RequestCode 生成验证码并发送；邮箱未注册时静默成功，不暴露账号是否存在
func (s *PasswordResetService) RequestCode(ctx context.Context, rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil || user.Status != constants.UserStatusActive {
		logger.FromContext(ctx).Infow("password_reset_requested_unknown", "email", email)
		return nil
	}

	code := s.codeGen(s.cfg.Length)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return err
	}
	ttl := time.Duration(s.cfg.TTLSeconds) * time.Second
	if err := s.store.Save(ctx, constants.OTPPurposePasswordReset, email, string(hash), ttl); err != nil {
		if errors.Is(err, cache.ErrOTPStoreDisabled) {
			return ErrOTPStoreUnavailable
		}
		return err
	}

	if err := s.email.SendPasswordResetCode(email, code, int(ttl/time.Minute)); err != nil {
		if errors.Is(err, ErrEmailServiceDisabled) {
			logger.FromContext(ctx).Warnw("password_reset_email_skipped", "email", email, "reason", "email disabled")
			return nil
		}
		logger.FromContext(ctx).Errorw("password_reset_email_failed", "email", email, "error", err)
		return nil
	}
	logger.FromContext(ctx).Infow("password_reset_code_sent", "email", email)
	return nil
}

// VerifyCode 校验验证码，成功后删除验证码并签发一次性重置凭证
func (s *PasswordResetService) VerifyCode(ctx context.Context, rawEmail, code string) (*PasswordResetResult, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrOTPInvalid
	}
	purpose := constants.OTPPurposePasswordReset
	record, ok, err := s.store.Get(ctx, purpose, email)
	if err != nil {
		if errors.Is(err, cache.ErrOTPStoreDisabled) {
			return nil, ErrOTPStoreUnavailable
		}
		return nil, err
	}
	if !ok {
		return nil, ErrOTPExpired
	}
	if record.Attempts >= s.cfg.MaxAttempts {
		_ = s.store.Delete(ctx, purpose, email)
		return nil, ErrOTPTooManyAttempts
	}
	if bcrypt.CompareHashAndPassword([]byte(record.Hash), []byte(code)) != nil {
		attempts, incrErr := s.store.IncrAttempts(ctx, purpose, email)
		if incrErr != nil {
			return nil, incrErr
		}
		if attempts >= s.cfg.MaxAttempts {
			_ = s.store.Delete(ctx, purpose, email)
			return nil, ErrOTPTooManyAttempts
		}
		return nil, ErrOTPInvalid
	}
	if err := s.store.Delete(ctx, purpose, email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrOTPInvalid
	}
	token, err := s.tokens.IssuePurpose(user.ID, user.Email, purpose, passwordResetTokenTTL)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("password_reset_code_verified", "user_id", user.ID)
	return &PasswordResetResult{ResetToken: token, ExpiresAt: time.Now().Add(passwordResetTokenTTL)}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
