package repository

import (
	"fmt"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time, lowStockThreshold int) (DashboardOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	OrdersTotal      int64
	PendingOrders    int64
	ProcessingOrders int64
	DeliveredOrders  int64
	CancelledOrders  int64
	PaidOrders       int64
	Revenue          float64
	NewUsers         int64
	ActiveProducts   int64
	OutOfStock       int64
	LowStock         int64
	DiscountedOrders int64
	DiscountTotal    float64
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	Revenue     float64
}

// DashboardProductRankingRow 商品排行原始行
type DashboardProductRankingRow struct {
	ProductID uint
	Name      string
	Orders    int64
	Quantity  int64
	Amount    float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// activeOrderStatuses 已确认且未取消的订单状态
func activeOrderStatuses() []string {
	return []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time, lowStockThreshold int) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	counts := []struct {
		dest  *int64
		scope func(*gorm.DB) *gorm.DB
	}{
		{&result.OrdersTotal, func(q *gorm.DB) *gorm.DB { return q }},
		{&result.PendingOrders, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", constants.OrderStatusPending) }},
		{&result.ProcessingOrders, func(q *gorm.DB) *gorm.DB {
			return q.Where("status IN ?", []string{constants.OrderStatusConfirmed, constants.OrderStatusProcessing, constants.OrderStatusShipped})
		}},
		{&result.DeliveredOrders, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", constants.OrderStatusDelivered) }},
		{&result.CancelledOrders, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", constants.OrderStatusCancelled) }},
		{&result.PaidOrders, func(q *gorm.DB) *gorm.DB { return q.Where("payment_status = ?", constants.PaymentStatusPaid) }},
		{&result.DiscountedOrders, func(q *gorm.DB) *gorm.DB {
			return q.Where("discount_amount > 0 AND status <> ?", constants.OrderStatusCancelled)
		}},
	}
	for _, item := range counts {
		if err := item.scope(orderBase()).Count(item.dest).Error; err != nil {
			return result, err
		}
	}

	if err := orderBase().
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	if err := orderBase().
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(discount_amount), 0)").
		Scan(&result.DiscountTotal).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	productBase := func() *gorm.DB {
		return r.db.Model(&models.Product{}).Where("is_active = ?", true)
	}
	if err := productBase().Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	if err := productBase().Where("stock = 0").Count(&result.OutOfStock).Error; err != nil {
		return result, err
	}
	if lowStockThreshold > 0 {
		if err := productBase().Where("stock > 0 AND stock <= ?", lowStockThreshold).Count(&result.LowStock).Error; err != nil {
			return result, err
		}
	}
	return result, nil
}

// GetOrderTrends 按天统计订单量与已支付金额
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type revenueRow struct {
		Day     string
		Revenue float64
	}

	dayExpr := dayExprByDialect(dbDialectName(r.db), "created_at")

	var totals []totalRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var revenues []revenueRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(final_amount), 0) as revenue", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND payment_status = ?", startAt, endAt, constants.PaymentStatusPaid).
		Group(dayExpr).
		Order("day asc").
		Scan(&revenues).Error; err != nil {
		return nil, err
	}

	revenueMap := make(map[string]float64, len(revenues))
	for _, item := range revenues {
		revenueMap[item.Day] = item.Revenue
	}

	result := make([]DashboardOrderTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardOrderTrendRow{
			Day:         item.Day,
			OrdersTotal: item.Total,
			Revenue:     revenueMap[item.Day],
		})
	}
	return result, nil
}

// GetTopProducts 获取热销商品排行（排除已取消订单）
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardProductRankingRow, 0)
	nameExpr := jsonTextExprByDialect(dbDialectName(r.db), "order_items.product_snapshot", "name")
	if err := r.db.Model(&models.OrderItem{}).
		Select(fmt.Sprintf(`
			order_items.product_id as product_id,
			MAX(%s) as name,
			COUNT(DISTINCT order_items.order_id) as orders,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			COALESCE(SUM(order_items.subtotal), 0) as amount
		`, nameExpr)).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status IN ?", startAt, endAt,
			append(activeOrderStatuses(), constants.OrderStatusPending)).
		Group("order_items.product_id").
		Order("quantity DESC, amount DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
