package repository

import (
	"testing"
	"time"

	"github.com/vestra-shop/internal/constants"
)

func TestDashboardOverviewAndTopProducts(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewDashboardRepository(db)
	orders := NewOrderRepository(db)

	createTestProduct(t, db, "in-stock", "10.00", 20)
	createTestProduct(t, db, "low-stock", "10.00", 2)
	createTestProduct(t, db, "sold-out", "10.00", 0)

	paid := createTestOrder(t, orders, "VS-D1", 1, constants.OrderStatusDelivered)
	if err := orders.Updates(paid.ID, map[string]interface{}{"payment_status": constants.PaymentStatusPaid}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	createTestOrder(t, orders, "VS-D2", 2, constants.OrderStatusPending)
	createTestOrder(t, orders, "VS-D3", 3, constants.OrderStatusCancelled)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	overview, err := repo.GetOverview(start, end, 5)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.OrdersTotal != 3 || overview.PendingOrders != 1 || overview.DeliveredOrders != 1 || overview.CancelledOrders != 1 {
		t.Fatalf("unexpected order counts: %+v", overview)
	}
	if overview.PaidOrders != 1 || overview.Revenue != 100 {
		t.Fatalf("unexpected revenue stats: %+v", overview)
	}
	if overview.ActiveProducts != 3 || overview.OutOfStock != 1 || overview.LowStock != 1 {
		t.Fatalf("unexpected stock stats: %+v", overview)
	}

	top, err := repo.GetTopProducts(start, end, 5)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(top) != 1 || top[0].Quantity != 4 || top[0].Orders != 2 || top[0].Name != "Tee" {
		t.Fatalf("unexpected top products: %+v", top)
	}

	trends, err := repo.GetOrderTrends(start, end)
	if err != nil {
		t.Fatalf("trends failed: %v", err)
	}
	var totalOrders int64
	for _, row := range trends {
		totalOrders += row.OrdersTotal
	}
	if totalOrders != 3 {
		t.Fatalf("expected 3 orders across trend rows, got %d", totalOrders)
	}
}
