package service

import (
	"errors"
	"testing"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"

	"github.com/shopspring/decimal"
)

func TestDiscountCodeEvaluate(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewDiscountCodeService(repository.NewDiscountCodeRepository(db))
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	create := func(input DiscountCodeInput) {
		t.Helper()
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("create %s failed: %v", input.Code, err)
		}
	}
	inactive := false
	create(DiscountCodeInput{Code: "flat15", Type: constants.DiscountTypeFixed, Value: decimal.NewFromInt(15)})
	create(DiscountCodeInput{Code: "BIG", Type: constants.DiscountTypeFixed, Value: decimal.NewFromInt(500)})
	create(DiscountCodeInput{Code: "PCT20", Type: constants.DiscountTypePercent, Value: decimal.NewFromInt(20), MinAmount: decimal.NewFromInt(50)})
	create(DiscountCodeInput{Code: "OFF", Type: constants.DiscountTypeFixed, Value: decimal.NewFromInt(5), IsActive: &inactive})
	create(DiscountCodeInput{Code: "LATER", Type: constants.DiscountTypeFixed, Value: decimal.NewFromInt(5), StartsAt: &future})
	create(DiscountCodeInput{Code: "GONE", Type: constants.DiscountTypeFixed, Value: decimal.NewFromInt(5), EndsAt: &past})

	cases := []struct {
		code   string
		total  string
		amount string
		err    error
	}{
		{code: "FLAT15", total: "100.00", amount: "15"},
		{code: "big", total: "80.00", amount: "80"},
		{code: "PCT20", total: "60.00", amount: "12"},
		{code: "PCT20", total: "40.00", err: ErrDiscountCodeMinAmount},
		{code: "OFF", total: "100.00", err: ErrDiscountCodeInactive},
		{code: "LATER", total: "100.00", err: ErrDiscountCodeNotStart},
		{code: "GONE", total: "100.00", err: ErrDiscountCodeExpired},
		{code: "NOPE", total: "100.00", err: ErrDiscountCodeNotFound},
		{code: " ", total: "100.00", err: ErrDiscountCodeInvalid},
	}
	for _, tc := range cases {
		result, err := svc.Evaluate(tc.code, decimal.RequireFromString(tc.total), now)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%s: want %v got %v", tc.code, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.code, err)
		}
		if !result.Amount.Equal(decimal.RequireFromString(tc.amount)) {
			t.Fatalf("%s: amount want %s got %s", tc.code, tc.amount, result.Amount)
		}
	}

	if _, err := svc.Create(DiscountCodeInput{Code: "FLAT15", Type: constants.DiscountTypeFixed, Value: decimal.NewFromInt(1)}); !errors.Is(err, ErrDiscountCodeExists) {
		t.Fatalf("duplicate code should be rejected, got %v", err)
	}
	if _, err := svc.Create(DiscountCodeInput{Code: "X", Type: constants.DiscountTypePercent, Value: decimal.NewFromInt(150)}); !errors.Is(err, ErrDiscountCodeInvalid) {
		t.Fatalf("percent over 100 should be rejected, got %v", err)
	}
}

func TestDiscountCodeUsageLimit(t *testing.T) {
	db := openServiceTestDB(t)
	repo := repository.NewDiscountCodeRepository(db)
	svc := NewDiscountCodeService(repo)
	code := &models.DiscountCode{Code: "ONCE", Type: constants.DiscountTypeFixed, Value: models.MustMoney("5"), UsageLimit: 1, UsedCount: 1, IsActive: true}
	if err := repo.Create(code); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Evaluate("ONCE", decimal.NewFromInt(100), time.Now()); !errors.Is(err, ErrDiscountCodeExhausted) {
		t.Fatalf("exhausted code should be rejected, got %v", err)
	}
}
