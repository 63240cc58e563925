package main

import (
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"

	"github.com/shopspring/decimal"
)

func price(value float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(value))
}

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

	apparel := models.StringArray{"XS", "S", "M", "L", "XL"}
	products := []models.Product{
		{
			Slug:        "linen-overshirt",
			Name:        "Linen Overshirt",
			Description: "Relaxed overshirt in washed European linen.",
			ImageURL:    "/static/products/linen-overshirt.jpg",
			Category:    "shirts",
			Sizes:       apparel,
			Price:       price(89.00),
			Stock:       40,
			IsActive:    true,
			SortOrder:   10,
		},
		{
			Slug:        "merino-crew",
			Name:        "Merino Crew Knit",
			Description: "Fine-gauge merino crewneck.",
			ImageURL:    "/static/products/merino-crew.jpg",
			Category:    "knitwear",
			Sizes:       apparel,
			Price:       price(120.00),
			Stock:       25,
			IsActive:    true,
			SortOrder:   20,
		},
		{
			Slug:        "wide-leg-trouser",
			Name:        "Wide Leg Trouser",
			Description: "High-rise pleated trouser.",
			ImageURL:    "/static/products/wide-leg-trouser.jpg",
			Category:    "trousers",
			Sizes:       models.StringArray{"26", "28", "30", "32", "34"},
			Price:       price(99.50),
			Stock:       30,
			IsActive:    true,
			SortOrder:   30,
		},
		{
			Slug:        "leather-tote",
			Name:        "Leather Tote",
			Description: "Vegetable-tanned leather tote, one size.",
			ImageURL:    "/static/products/leather-tote.jpg",
			Category:    "accessories",
			Price:       price(210.00),
			Stock:       8,
			IsActive:    true,
			SortOrder:   40,
		},
		{
			Slug:        "archive-trench",
			Name:        "Archive Trench",
			Description: "Last season trench coat, no longer for sale.",
			ImageURL:    "/static/products/archive-trench.jpg",
			Category:    "outerwear",
			Sizes:       apparel,
			Price:       price(340.00),
			Stock:       0,
			IsActive:    false,
			SortOrder:   50,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.Slug)
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.Slug)
	}

	now := time.Now()
	seasonEnd := now.AddDate(0, 3, 0)
	banners := []models.Banner{
		{
			Title:     "New Season",
			Subtitle:  "Linen, knit and tailoring for the months ahead",
			ImageURL:  "/static/banners/new-season.jpg",
			LinkURL:   "/collections/new",
			Position:  "home_hero",
			IsActive:  true,
			SortOrder: 10,
		},
		{
			Title:     "Free Shipping",
			Subtitle:  "On orders over 150",
			ImageURL:  "/static/banners/shipping.jpg",
			Position:  "home_strip",
			IsActive:  true,
			StartAt:   &now,
			EndAt:     &seasonEnd,
			SortOrder: 20,
		},
	}
	for _, banner := range banners {
		var existing models.Banner
		if err := models.DB.Where("title = ? AND position = ?", banner.Title, banner.Position).First(&existing).Error; err == nil {
			stdLog.Printf("Banner already exists: %s", banner.Title)
			continue
		}
		if err := models.DB.Create(&banner).Error; err != nil {
			stdLog.Printf("Failed to create banner %s: %v", banner.Title, err)
			continue
		}
		stdLog.Printf("Created banner: %s", banner.Title)
	}

	codes := []models.DiscountCode{
		{
			Code:     "WELCOME10",
			Type:     constants.DiscountTypePercent,
			Value:    price(10),
			IsActive: true,
		},
		{
			Code:       "SAVE25",
			Type:       constants.DiscountTypeFixed,
			Value:      price(25),
			MinAmount:  price(150),
			UsageLimit: 500,
			IsActive:   true,
			EndsAt:     &seasonEnd,
		},
		{
			Code:        "VIP20",
			Type:        constants.DiscountTypePercent,
			Value:       price(20),
			MaxDiscount: price(60),
			UsageLimit:  100,
			IsActive:    true,
		},
	}
	for _, code := range codes {
		var existing models.DiscountCode
		if err := models.DB.Where("code = ?", code.Code).First(&existing).Error; err == nil {
			stdLog.Printf("Discount code already exists: %s", code.Code)
			continue
		}
		if err := models.DB.Create(&code).Error; err != nil {
			stdLog.Printf("Failed to create discount code %s: %v", code.Code, err)
			continue
		}
		stdLog.Printf("Created discount code: %s", code.Code)
	}

	// 本地联调用管理员，ID 需与开发环境签发令牌的 user_id 一致
	if err := models.InitDefaultAdmin(1, "admin@vestra.local"); err != nil {
		stdLog.Printf("Failed to init admin user: %v", err)
	}

	stdLog.Printf("Seed completed")
}
