package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Publisher 事件投递接口
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload interface{}) error
}

// Envelope 事件信封
type Envelope struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	Key        string          `json:"key,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Encode 生成带唯一 ID 的事件信封
func Encode(topic, key string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	})
}

// Decode 解析事件信封并填充载荷
func Decode(raw []byte, payload interface{}) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if payload != nil && len(envelope.Payload) > 0 {
		if err := json.Unmarshal(envelope.Payload, payload); err != nil {
			return &envelope, err
		}
	}
	return &envelope, nil
}

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID        uint      `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	UserID         uint      `json:"user_id"`
	TotalAmount    string    `json:"total_amount"`
	DiscountAmount string    `json:"discount_amount"`
	FinalAmount    string    `json:"final_amount"`
	ItemCount      int       `json:"item_count"`
	PaymentMethod  string    `json:"payment_method"`
	Platform       string    `json:"platform"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderStatusUpdatedEvent 订单状态变更事件
type OrderStatusUpdatedEvent struct {
	OrderID       uint      `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        uint      `json:"user_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	PaymentStatus string    `json:"payment_status"`
	UpdatedAt     time.Time `json:"updated_at"`
}
