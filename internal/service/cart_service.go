package service

import (
	"context"
	"strings"

	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// UpsertCartItemInput 添加/修改购物车项输入
type UpsertCartItemInput struct {
	UserID    uint
	ProductID uint
	Size      string
	Quantity  int
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  models.Money      `json:"subtotal"`
}

// ListByUser 读取用户购物车，每行附带商品当前价格与库存
func (s *CartService) ListByUser(_ context.Context, userID uint) ([]models.CartItem, error) {
	if userID == 0 {
		return []models.CartItem{}, nil
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Summary 返回购物车及按当前价格计算的小计
func (s *CartService) Summary(ctx context.Context, userID uint) (*CartSummary, error) {
	items, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		count += item.Quantity
		if item.Product == nil {
			continue
		}
		subtotal = subtotal.Add(item.Product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &CartSummary{
		Items:     items,
		ItemCount: count,
		Subtotal:  models.NewMoneyFromDecimal(subtotal),
	}, nil
}

// UpsertItem 添加商品或修改数量（同商品同尺码合并为一行）
func (s *CartService) UpsertItem(_ context.Context, input UpsertCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Quantity < 1 {
		return nil, ErrCartQuantityInvalid
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	size, err := resolveProductSize(product, input.Size)
	if err != nil {
		return nil, err
	}
	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: product.ID,
		Size:      size,
		Quantity:  input.Quantity,
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(_ context.Context, userID, itemID uint) error {
	affected, err := s.cartRepo.DeleteByIDAndUser(itemID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// resolveProductSize 商品配置了尺码时必须选择其中之一，未配置尺码时不接受尺码
func resolveProductSize(product *models.Product, raw string) (string, error) {
	size := strings.TrimSpace(raw)
	if len(product.Sizes) == 0 {
		if size != "" {
			return "", ErrProductSizeInvalid
		}
		return "", nil
	}
	for _, candidate := range product.Sizes {
		if strings.EqualFold(candidate, size) {
			return candidate, nil
		}
	}
	return "", ErrProductSizeInvalid
}
