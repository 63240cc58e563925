package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vestra-shop/internal/cache"
	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type memoryOTPStore struct {
	mu       sync.Mutex
	records  map[string]*cache.OTPRecord
	disabled bool
	saves    int
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{records: map[string]*cache.OTPRecord{}}
}

func (s *memoryOTPStore) Save(_ context.Context, purpose, email, hash string, ttl time.Duration) error {
	if s.disabled {
		return cache.ErrOTPStoreDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.records[cache.OTPKey(purpose, email)] = &cache.OTPRecord{Hash: hash, TTL: ttl}
	return nil
}

func (s *memoryOTPStore) Get(_ context.Context, purpose, email string) (*cache.OTPRecord, bool, error) {
	if s.disabled {
		return nil, false, cache.ErrOTPStoreDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[cache.OTPKey(purpose, email)]
	if !ok {
		return nil, false, nil
	}
	copied := *record
	return &copied, true, nil
}

func (s *memoryOTPStore) IncrAttempts(_ context.Context, purpose, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[cache.OTPKey(purpose, email)]
	if !ok {
		return 0, nil
	}
	record.Attempts++
	return record.Attempts, nil
}

func (s *memoryOTPStore) Delete(_ context.Context, purpose, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, cache.OTPKey(purpose, email))
	return nil
}

func newPasswordResetFixture(t *testing.T) (*PasswordResetService, *memoryOTPStore, *TokenService) {
	t.Helper()
	db := openServiceTestDB(t)
	users := repository.NewUserRepository(db)
	if err := users.Create(&models.User{ID: 7, Email: "ada@example.com", Role: constants.UserRoleCustomer, Status: constants.UserStatusActive}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := users.Create(&models.User{ID: 8, Email: "off@example.com", Role: constants.UserRoleCustomer, Status: constants.UserStatusDisabled}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	store := newMemoryOTPStore()
	tokens := NewTokenService(config.JWTConfig{SecretKey: "test-secret"})
	svc := NewPasswordResetService(store, users, NewEmailService(&config.EmailConfig{Enabled: false}), tokens, config.OTPConfig{TTLSeconds: 300, Length: 6, MaxAttempts: 3})
	svc.cost = bcrypt.MinCost
	svc.codeGen = func(int) string { return "123456" }
	return svc, store, tokens
}

func TestPasswordResetRequestIsSilentForUnknownUsers(t *testing.T) {
	svc, store, _ := newPasswordResetFixture(t)
	ctx := context.Background()

	for _, email := range []string{"nobody@example.com", "off@example.com"} {
		if err := svc.RequestCode(ctx, email); err != nil {
			t.Fatalf("%s: request should succeed silently, got %v", email, err)
		}
	}
	if store.saves != 0 {
		t.Fatalf("no code should be stored for unknown or disabled users, saves=%d", store.saves)
	}
	if err := svc.RequestCode(ctx, "not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("malformed email should be rejected, got %v", err)
	}
}

func TestPasswordResetVerifyIssuesPurposeToken(t *testing.T) {
	svc, store, tokens := newPasswordResetFixture(t)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, " Ada@Example.com "); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	record, ok, _ := store.Get(ctx, constants.OTPPurposePasswordReset, "ada@example.com")
	if !ok || strings.Contains(record.Hash, "123456") || record.TTL != 300*time.Second {
		t.Fatalf("code should be stored hashed with the configured ttl: %+v", record)
	}

	if _, err := svc.VerifyCode(ctx, "ada@example.com", "000000"); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("wrong code should fail, got %v", err)
	}
	result, err := svc.VerifyCode(ctx, "ada@example.com", "123456")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	claims, err := tokens.Parse(result.ResetToken)
	if err != nil {
		t.Fatalf("reset token should parse: %v", err)
	}
	if claims.UserID != 7 || claims.Purpose != constants.OTPPurposePasswordReset {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.VerifyCode(ctx, "ada@example.com", "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("code must not be reusable, got %v", err)
	}
}

func TestPasswordResetAttemptLimit(t *testing.T) {
	svc, store, _ := newPasswordResetFixture(t)
	ctx := context.Background()
	if err := svc.RequestCode(ctx, "ada@example.com"); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.VerifyCode(ctx, "ada@example.com", "999999"); !errors.Is(err, ErrOTPInvalid) {
			t.Fatalf("attempt %d: want invalid, got %v", i+1, err)
		}
	}
	if _, err := svc.VerifyCode(ctx, "ada@example.com", "999999"); !errors.Is(err, ErrOTPTooManyAttempts) {
		t.Fatalf("third wrong attempt should lock the code, got %v", err)
	}
	if _, ok, _ := store.Get(ctx, constants.OTPPurposePasswordReset, "ada@example.com"); ok {
		t.Fatalf("locked code should be deleted")
	}
	if _, err := svc.VerifyCode(ctx, "ada@example.com", "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("correct code after lock should not pass, got %v", err)
	}
}

func TestPasswordResetStoreUnavailable(t *testing.T) {
	svc, store, _ := newPasswordResetFixture(t)
	store.disabled = true
	if err := svc.RequestCode(context.Background(), "ada@example.com"); !errors.Is(err, ErrOTPStoreUnavailable) {
		t.Fatalf("want store unavailable, got %v", err)
	}
	if _, err := svc.VerifyCode(context.Background(), "ada@example.com", "123456"); !errors.Is(err, ErrOTPStoreUnavailable) {
		t.Fatalf("want store unavailable, got %v", err)
	}
}
