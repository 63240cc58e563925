package service

import (
	"strings"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// DiscountCodeService 优惠码服务
type DiscountCodeService struct {
	repo repository.DiscountCodeRepository
}

// NewDiscountCodeService 创建优惠码服务
func NewDiscountCodeService(repo repository.DiscountCodeRepository) *DiscountCodeService {
	return &DiscountCodeService{repo: repo}
}

// DiscountEvaluation 优惠码试算结果
type DiscountEvaluation struct {
	Code   *models.DiscountCode
	Amount decimal.Decimal
}

// Evaluate 校验优惠码并计算优惠金额（不超过订单合计）
func (s *DiscountCodeService) Evaluate(code string, total decimal.Decimal, now time.Time) (*DiscountEvaluation, error) {
	code = normalizeDiscountCode(code)
	if code == "" {
		return nil, ErrDiscountCodeInvalid
	}
	record, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrDiscountCodeNotFound
	}
	if !record.IsActive {
		return nil, ErrDiscountCodeInactive
	}
	if record.StartsAt != nil && now.Before(*record.StartsAt) {
		return nil, ErrDiscountCodeNotStart
	}
	if record.EndsAt != nil && now.After(*record.EndsAt) {
		return nil, ErrDiscountCodeExpired
	}
	if record.UsageLimit > 0 && record.UsedCount >= record.UsageLimit {
		return nil, ErrDiscountCodeExhausted
	}
	if record.MinAmount.GreaterThan(decimal.Zero) && total.LessThan(record.MinAmount.Decimal) {
		return nil, ErrDiscountCodeMinAmount
	}
	amount, err := calcDiscountAmount(record, total)
	if err != nil {
		return nil, err
	}
	return &DiscountEvaluation{Code: record, Amount: amount}, nil
}

func calcDiscountAmount(code *models.DiscountCode, total decimal.Decimal) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch code.Type {
	case constants.DiscountTypeFixed:
		amount = code.Value.Decimal
	case constants.DiscountTypePercent:
		amount = total.Mul(code.Value.Decimal).Div(decimal.NewFromInt(100))
		if code.MaxDiscount.GreaterThan(decimal.Zero) && amount.GreaterThan(code.MaxDiscount.Decimal) {
			amount = code.MaxDiscount.Decimal
		}
	default:
		return decimal.Zero, ErrDiscountCodeInvalid
	}
	if amount.GreaterThan(total) {
		amount = total
	}
	if amount.LessThan(decimal.Zero) {
		amount = decimal.Zero
	}
	return amount.Round(2), nil
}

func normalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountCodeInput 管理端优惠码输入
type DiscountCodeInput struct {
	Code        string
	Type        string
	Value       decimal.Decimal
	MinAmount   decimal.Decimal
	MaxDiscount decimal.Decimal
	UsageLimit  int
	StartsAt    *time.Time
	EndsAt      *time.Time
	IsActive    *bool
}

// List 管理端优惠码列表
func (s *DiscountCodeService) List(filter repository.DiscountCodeListFilter) ([]models.DiscountCode, int64, error) {
	return s.repo.List(filter)
}

// Get 获取优惠码
func (s *DiscountCodeService) Get(id uint) (*models.DiscountCode, error) {
	code, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrDiscountCodeNotFound
	}
	return code, nil
}

// Create 创建优惠码
func (s *DiscountCodeService) Create(input DiscountCodeInput) (*models.DiscountCode, error) {
	code := &models.DiscountCode{IsActive: true}
	if err := s.apply(code, input); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByCode(code.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDiscountCodeExists
	}
	if err := s.repo.Create(code); err != nil {
		return nil, err
	}
	return code, nil
}

// Update 更新优惠码
func (s *DiscountCodeService) Update(id uint, input DiscountCodeInput) (*models.DiscountCode, error) {
	code, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(code, input); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByCode(code.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != code.ID {
		return nil, ErrDiscountCodeExists
	}
	if err := s.repo.Update(code); err != nil {
		return nil, err
	}
	return code, nil
}

// Delete 删除优惠码
func (s *DiscountCodeService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *DiscountCodeService) apply(code *models.DiscountCode, input DiscountCodeInput) error {
	value := normalizeDiscountCode(input.Code)
	if value == "" {
		return ErrDiscountCodeInvalid
	}
	switch input.Type {
	case constants.DiscountTypeFixed:
	case constants.DiscountTypePercent:
		if input.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrDiscountCodeInvalid
		}
	default:
		return ErrDiscountCodeInvalid
	}
	if input.Value.LessThanOrEqual(decimal.Zero) || input.MinAmount.LessThan(decimal.Zero) || input.MaxDiscount.LessThan(decimal.Zero) || input.UsageLimit < 0 {
		return ErrDiscountCodeInvalid
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return ErrDiscountCodeInvalid
	}
	code.Code = value
	code.Type = input.Type
	code.Value = models.NewMoneyFromDecimal(input.Value)
	code.MinAmount = models.NewMoneyFromDecimal(input.MinAmount)
	code.MaxDiscount = models.NewMoneyFromDecimal(input.MaxDiscount)
	code.UsageLimit = input.UsageLimit
	code.StartsAt = input.StartsAt
	code.EndsAt = input.EndsAt
	if input.IsActive != nil {
		code.IsActive = *input.IsActive
	}
	return nil
}
