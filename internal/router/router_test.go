package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupRouterTest(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret"},
		Events: config.EventsConfig{Driver: constants.EventDriverNoop},
		Order: config.OrderConfig{
			DiscountCodesEnabled:    true,
			SettleOnDelivery:        true,
			SettleOnDeliveryMethods: []string{constants.PaymentMethodCOD},
			NumberPrefix:            "VS",
			NumberRetry:             3,
		},
	}
	c := provider.NewContainerWithDB(cfg, db)
	t.Cleanup(c.Close)
	return SetupRouter(cfg, c), c
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d: %s", method, path, w.Code, w.Body.String())
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestHealthz(t *testing.T) {
	r, _ := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("redis should be reported disabled, got %s", w.Body.String())
	}
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	r, c := setupRouterTest(t)

	product := &models.Product{
		Slug:     "linen-shirt",
		Name:     "Linen Shirt",
		Category: "shirts",
		Sizes:    models.StringArray{"S", "M", "L"},
		Price:    models.MustMoney("49.90"),
		Stock:    5,
		IsActive: true,
	}
	if err := c.DB.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	token, err := c.TokenService.Issue(101, "shopper@example.com", constants.UserRoleCustomer, time.Minute)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	if resp := doJSON(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{"payment_method": "cod"}); resp.StatusCode != 400 {
		t.Fatalf("empty cart checkout status_code want 400 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	if resp := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", token, gin.H{
		"product_id": product.ID,
		"size":       "m",
		"quantity":   2,
	}); resp.StatusCode != 0 {
		t.Fatalf("add cart item status_code want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	resp := doJSON(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{
		"payment_method": "cod",
		"shipping_address": gin.H{
			"full_name": "Ada Shopper",
			"phone":     "+15550100",
			"line1":     "1 Market St",
			"city":      "Springfield",
		},
	})
	if resp.StatusCode != 0 {
		t.Fatalf("checkout status_code want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var created struct {
		OrderID     uint   `json:"order_id"`
		OrderNumber string `json:"order_number"`
		FinalAmount string `json:"final_amount"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("unmarshal order failed: %v", err)
	}
	if created.OrderID == 0 || !strings.HasPrefix(created.OrderNumber, "VS") {
		t.Fatalf("unexpected order result: %+v", created)
	}
	if created.FinalAmount != "99.80" {
		t.Fatalf("final amount want 99.80 got %s", created.FinalAmount)
	}

	var stock int
	if err := c.DB.Model(&models.Product{}).Select("stock").Where("id = ?", product.ID).Scan(&stock).Error; err != nil {
		t.Fatalf("load stock failed: %v", err)
	}
	if stock != 3 {
		t.Fatalf("stock want 3 got %d", stock)
	}

	// 其他用户不可见
	otherToken, _ := c.TokenService.Issue(102, "other@example.com", constants.UserRoleCustomer, time.Minute)
	if resp := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", created.OrderID), otherToken, nil); resp.StatusCode != 404 {
		t.Fatalf("foreign order status_code want 404 got %d", resp.StatusCode)
	}

	// 客户无后台权限，客服可推进订单
	path := fmt.Sprintf("/api/v1/admin/orders/%d/status", created.OrderID)
	if resp := doJSON(t, r, http.MethodPatch, path, token, gin.H{"status": "confirmed"}); resp.StatusCode != 403 {
		t.Fatalf("customer admin access status_code want 403 got %d", resp.StatusCode)
	}
	supportToken, _ := c.TokenService.Issue(103, "support@example.com", constants.UserRoleSupport, time.Minute)
	if resp := doJSON(t, r, http.MethodPatch, path, supportToken, gin.H{"status": "confirmed"}); resp.StatusCode != 0 {
		t.Fatalf("support status update status_code want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	if resp := doJSON(t, r, http.MethodPatch, path, supportToken, gin.H{"status": "delivered"}); resp.StatusCode != 409 {
		t.Fatalf("skipping transition status_code want 409 got %d (%s)", resp.StatusCode, resp.Msg)
	}
}

func TestBuildAdminPermissionCatalog(t *testing.T) {
	r, _ := setupRouterTest(t)

	items := buildAdminPermissionCatalog(r)
	if len(items) == 0 {
		t.Fatalf("catalog should not be empty")
	}
	found := false
	for _, item := range items {
		if strings.HasPrefix(item.Object, "/api/") {
			t.Fatalf("object should be normalized, got %s", item.Object)
		}
		if item.Permission == "PATCH:/admin/orders/:id/status" {
			found = true
			if item.Module != "orders" {
				t.Fatalf("module want orders got %s", item.Module)
			}
		}
	}
	if !found {
		t.Fatalf("order status permission missing from catalog")
	}
}
