package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/events"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/provider"
	"github.com/vestra-shop/internal/queue"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)
	container := &provider.Container{
		DB:                  db,
		UserRepo:            userRepo,
		OrderRepo:           repository.NewOrderRepository(db),
		UserService:         service.NewUserService(userRepo),
		EmailService:        service.NewEmailService(&config.EmailConfig{Enabled: false}),
		NotificationService: service.NewNotificationService(repository.NewNotificationRepository(db)),
	}
	return NewConsumer(container), db
}

func encodeTask(t *testing.T, taskType, topic string, payload interface{}) *asynq.Task {
	t.Helper()
	body, err := events.Encode(topic, "VS-1", payload)
	if err != nil {
		t.Fatalf("encode event failed: %v", err)
	}
	return queue.NewEventTask(taskType, body)
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint, kind string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Notification{}).Where("user_id = ? AND type = ?", userID, kind).Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	return count
}

func TestHandleOrderCreatedStoresNotification(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	task := encodeTask(t, queue.TaskOrderCreated, constants.EventOrderCreated, events.OrderCreatedEvent{
		OrderID:     9,
		OrderNumber: "VS-1",
		UserID:      4,
		FinalAmount: "120.00",
		ItemCount:   2,
	})
	if err := consumer.handleOrderCreated(context.Background(), task); err != nil {
		t.Fatalf("handle order created failed: %v", err)
	}
	if got := countNotifications(t, db, 4, constants.NotificationTypeOrderCreated); got != 1 {
		t.Fatalf("notification count want 1 got %d", got)
	}
}

func TestHandleOrderStatusUpdatedWithEmailDisabled(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	if err := db.Create(&models.User{ID: 4, Email: "buyer@example.com", Role: "customer", Status: "active"}).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	task := encodeTask(t, queue.TaskOrderStatusUpdated, constants.EventOrderStatusUpdated, events.OrderStatusUpdatedEvent{
		OrderID:     9,
		OrderNumber: "VS-1",
		UserID:      4,
		FromStatus:  constants.OrderStatusShipped,
		ToStatus:    constants.OrderStatusDelivered,
	})
	if err := consumer.handleOrderStatusUpdated(context.Background(), task); err != nil {
		t.Fatalf("handle status updated failed: %v", err)
	}
	if got := countNotifications(t, db, 4, constants.NotificationTypeOrderStatusUpdated); got != 1 {
		t.Fatalf("notification count want 1 got %d", got)
	}
}

func TestHandleEventSkipsInvalidPayload(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	err := consumer.handleOrderCreated(context.Background(), asynq.NewTask(queue.TaskOrderCreated, []byte("{not-json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}

	task := encodeTask(t, queue.TaskOrderStatusUpdated, constants.EventOrderStatusUpdated, events.OrderStatusUpdatedEvent{UserID: 4})
	if err := consumer.handleOrderStatusUpdated(context.Background(), task); err != nil {
		t.Fatalf("missing order id should be ignored, got %v", err)
	}
	if got := countNotifications(t, db, 4, constants.NotificationTypeOrderStatusUpdated); got != 0 {
		t.Fatalf("no notification expected, got %d", got)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); err == nil {
		t.Fatalf("disabled queue should be rejected")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should be rejected")
	}
}

func TestLogTaskPassesResultThrough(t *testing.T) {
	called := false
	handler := logTask(asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		called = true
		return fmt.Errorf("wrap: %w", asynq.SkipRetry)
	}))
	err := handler.ProcessTask(context.Background(), asynq.NewTask(queue.TaskOrderCreated, nil))
	if !called {
		t.Fatalf("next handler should be called")
	}
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry to pass through, got %v", err)
	}
}
