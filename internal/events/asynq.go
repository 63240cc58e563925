package events

import (
	"context"

	"github.com/vestra-shop/internal/queue"
)

// AsynqPublisher 基于 asynq 队列的事件投递
type AsynqPublisher struct {
	client *queue.Client
}

// NewAsynqPublisher 创建 asynq 投递器
func NewAsynqPublisher(client *queue.Client) *AsynqPublisher {
	return &AsynqPublisher{client: client}
}

// Publish 编码事件并入队
func (p *AsynqPublisher) Publish(ctx context.Context, topic string, key string, payload interface{}) error {
	if p == nil || !p.client.Enabled() {
		return ErrPublisherDisabled
	}
	body, err := Encode(topic, key, payload)
	if err != nil {
		return err
	}
	return p.client.EnqueueEvent(ctx, queue.TaskTypeForTopic(topic), body)
}
