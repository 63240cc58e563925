package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 共享缓存内存库只保留一个连接，写事务串行执行
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

type recordedEvent struct {
	topic   string
	key     string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
	panic  bool
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panic {
		panic("broker exploded")
	}
	p.events = append(p.events, recordedEvent{topic: topic, key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]string, 0, len(p.events))
	for _, evt := range p.events {
		result = append(result, evt.topic)
	}
	return result
}

type orderFixture struct {
	db        *gorm.DB
	service   *OrderService
	publisher *recordingPublisher
	cartRepo  *repository.GormCartRepository
	products  *repository.GormProductRepository
	orders    *repository.GormOrderRepository
	discounts *repository.GormDiscountCodeRepository
}

func newOrderFixture(t *testing.T, options OrderOptions) *orderFixture {
	t.Helper()
	db := openServiceTestDB(t)
	fx := &orderFixture{
		db:        db,
		publisher: &recordingPublisher{},
		cartRepo:  repository.NewCartRepository(db),
		products:  repository.NewProductRepository(db),
		orders:    repository.NewOrderRepository(db),
		discounts: repository.NewDiscountCodeRepository(db),
	}
	fx.service = NewOrderService(db, fx.orders, fx.products, fx.cartRepo, fx.discounts, fx.publisher, options)
	return fx
}

func (fx *orderFixture) product(t *testing.T, slug, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:        slug,
		Name:        "Product " + slug,
		Description: "desc " + slug,
		ImageURL:    "https://cdn.example.com/" + slug + ".jpg",
		Category:    "tops",
		Price:       models.MustMoney(price),
		Stock:       stock,
		IsActive:    true,
	}
	if err := fx.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (fx *orderFixture) addToCart(t *testing.T, userID uint, product *models.Product, quantity int) {
	t.Helper()
	if err := fx.cartRepo.Upsert(&models.CartItem{UserID: userID, ProductID: product.ID, Quantity: quantity}); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
}

func (fx *orderFixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	product, err := fx.products.GetByID(productID)
	if err != nil || product == nil {
		t.Fatalf("load product %d failed: %v", productID, err)
	}
	return product.Stock
}

func (fx *orderFixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var total int64
	if err := fx.db.Model(model).Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return total
}

func (fx *orderFixture) cartSize(t *testing.T, userID uint) int {
	t.Helper()
	items, err := fx.cartRepo.ListByUser(userID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	return len(items)
}

func checkoutInput(userID uint, paymentMethod string) CreateOrderInput {
	return CreateOrderInput{
		UserID:        userID,
		PaymentMethod: paymentMethod,
		ShippingAddress: models.ShippingAddress{
			FullName: "Ada Lovelace",
			Phone:    "+44 20 7946 0000",
			Line1:    "12 Marylebone Rd",
			City:     "London",
			Country:  "GB",
		},
		Platform: constants.PlatformWeb,
	}
}
