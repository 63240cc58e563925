package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vestra-shop/internal/models"
)

func TestCartUpsertMergesAndValidates(t *testing.T) {
	fx := newOrderFixture(t, DefaultOrderOptions())
	carts := NewCartService(fx.cartRepo, fx.products)
	dress := fx.product(t, "wrap-dress", "70.00", 4)
	dress.Sizes = models.StringArray{"S", "M", "L"}
	if err := fx.db.Save(dress).Error; err != nil {
		t.Fatalf("save sizes failed: %v", err)
	}
	hidden := fx.product(t, "hidden", "10.00", 4)
	if err := fx.db.Model(hidden).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	ctx := context.Background()
	first, err := carts.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: dress.ID, Size: "m", Quantity: 1})
	if err != nil || first.Size != "M" {
		t.Fatalf("add item failed: %v size=%v", err, first)
	}
	second, err := carts.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: dress.ID, Size: "M", Quantity: 3})
	if err != nil || second.ID != first.ID {
		t.Fatalf("same product and size should update the existing line: %v", err)
	}

	if _, err := carts.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: dress.ID, Size: "XXL", Quantity: 1}); !errors.Is(err, ErrProductSizeInvalid) {
		t.Fatalf("unknown size should be rejected, got %v", err)
	}
	if _, err := carts.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: dress.ID, Size: "S", Quantity: 0}); !errors.Is(err, ErrCartQuantityInvalid) {
		t.Fatalf("zero quantity should be rejected, got %v", err)
	}
	if _, err := carts.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: hidden.ID, Quantity: 1}); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("inactive product should be rejected, got %v", err)
	}
	if _, err := carts.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: 9999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product should be rejected, got %v", err)
	}

	summary, err := carts.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.ItemCount != 3 || summary.Subtotal.String() != "210.00" {
		t.Fatalf("unexpected summary: items=%d count=%d subtotal=%s", len(summary.Items), summary.ItemCount, summary.Subtotal)
	}
	if summary.Items[0].Product == nil || summary.Items[0].Product.Stock != 4 {
		t.Fatalf("cart lines should carry current product data")
	}

	if err := carts.RemoveItem(ctx, 2, first.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("removing another user's line should fail, got %v", err)
	}
	if err := carts.RemoveItem(ctx, 1, first.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	empty, err := carts.ListByUser(ctx, 1)
	if err != nil || len(empty) != 0 {
		t.Fatalf("cart should be empty, got %d err=%v", len(empty), err)
	}
}
