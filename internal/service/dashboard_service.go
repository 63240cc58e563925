package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vestra-shop/internal/cache"
	"github.com/vestra-shop/internal/repository"
)

const (
	dashboardCacheTTL         = 45 * time.Second
	dashboardCustomMaxDays    = 90
	dashboardLowStockLimit    = 5
	dashboardTopProductsLimit = 10
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range       string                    `json:"range"`
	From        string                    `json:"from"`
	To          string                    `json:"to"`
	Timezone    string                    `json:"timezone"`
	KPI         DashboardKPI              `json:"kpi"`
	Trends      []DashboardTrendPoint     `json:"trends"`
	TopProducts []DashboardProductRanking `json:"top_products"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	OrdersTotal        int64  `json:"orders_total"`
	PendingOrders      int64  `json:"pending_orders"`
	ProcessingOrders   int64  `json:"processing_orders"`
	DeliveredOrders    int64  `json:"delivered_orders"`
	CancelledOrders    int64  `json:"cancelled_orders"`
	PaidOrders         int64  `json:"paid_orders"`
	Revenue            string `json:"revenue"`
	AverageOrderValue  string `json:"average_order_value"`
	CancelRate         string `json:"cancel_rate"`
	NewUsers           int64  `json:"new_users"`
	ActiveProducts     int64  `json:"active_products"`
	OutOfStockProducts int64  `json:"out_of_stock_products"`
	LowStockProducts   int64  `json:"low_stock_products"`
	DiscountedOrders   int64  `json:"discounted_orders"`
	DiscountTotal      string `json:"discount_total"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date        string `json:"date"`
	OrdersTotal int64  `json:"orders_total"`
	Revenue     string `json:"revenue"`
}

// DashboardProductRanking 商品排行项
type DashboardProductRanking struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Orders    int64  `json:"orders"`
	Quantity  int64  `json:"quantity"`
	Amount    string `json:"amount"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取仪表盘总览（含每日趋势与商品排行）
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt, dashboardLowStockLimit)
	if err != nil {
		return nil, err
	}
	trendRows, err := s.repo.GetOrderTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	rankingRows, err := s.repo.GetTopProducts(window.startAt, window.endAt, dashboardTopProductsLimit)
	if err != nil {
		return nil, err
	}

	averageOrderValue := 0.0
	if overview.PaidOrders > 0 {
		averageOrderValue = overview.Revenue / float64(overview.PaidOrders)
	}
	cancelRate := 0.0
	if overview.OrdersTotal > 0 {
		cancelRate = float64(overview.CancelledOrders) / float64(overview.OrdersTotal) * 100
	}

	trendMap := make(map[string]repository.DashboardOrderTrendRow, len(trendRows))
	for _, row := range trendRows {
		trendMap[row.Day] = row
	}
	points := make([]DashboardTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		row := trendMap[day]
		points = append(points, DashboardTrendPoint{
			Date:        day,
			OrdersTotal: row.OrdersTotal,
			Revenue:     formatMoneyValue(row.Revenue),
		})
	}

	rankings := make([]DashboardProductRanking, 0, len(rankingRows))
	for _, row := range rankingRows {
		rankings = append(rankings, DashboardProductRanking{
			ProductID: row.ProductID,
			Name:      row.Name,
			Orders:    row.Orders,
			Quantity:  row.Quantity,
			Amount:    formatMoneyValue(row.Amount),
		})
	}

	response := &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: DashboardKPI{
			OrdersTotal:        overview.OrdersTotal,
			PendingOrders:      overview.PendingOrders,
			ProcessingOrders:   overview.ProcessingOrders,
			DeliveredOrders:    overview.DeliveredOrders,
			CancelledOrders:    overview.CancelledOrders,
			PaidOrders:         overview.PaidOrders,
			Revenue:            formatMoneyValue(overview.Revenue),
			AverageOrderValue:  formatMoneyValue(averageOrderValue),
			CancelRate:         formatPercentValue(cancelRate),
			NewUsers:           overview.NewUsers,
			ActiveProducts:     overview.ActiveProducts,
			OutOfStockProducts: overview.OutOfStock,
			LowStockProducts:   overview.LowStock,
			DiscountedOrders:   overview.DiscountedOrders,
			DiscountTotal:      formatMoneyValue(overview.DiscountTotal),
		},
		Trends:      points,
		TopProducts: rankings,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) || endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
