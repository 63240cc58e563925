package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/vestra-shop/internal/logger"
)

var (
	// ErrPublisherDisabled 投递器未启用
	ErrPublisherDisabled = errors.New("event publisher disabled")
	// ErrNoBrokers 未配置 Kafka broker
	ErrNoBrokers = errors.New("no kafka brokers configured")
)

// BestEffort 尽力投递：失败与 panic 只记录日志，从不向调用方返回错误
type BestEffort struct {
	inner Publisher
}

// NewBestEffort 包装投递器
func NewBestEffort(inner Publisher) *BestEffort {
	return &BestEffort{inner: inner}
}

// Publish 投递事件，始终返回 nil
func (b *BestEffort) Publish(ctx context.Context, topic string, key string, payload interface{}) (err error) {
	if b == nil || b.inner == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("event_publish_panic", "topic", topic, "key", key, "panic", fmt.Sprint(r))
		}
		err = nil
	}()
	if publishErr := b.inner.Publish(ctx, topic, key, payload); publishErr != nil {
		if errors.Is(publishErr, ErrPublisherDisabled) {
			logger.Debugw("event_publish_skipped", "topic", topic, "key", key)
			return nil
		}
		logger.Warnw("event_publish_failed", "topic", topic, "key", key, "error", publishErr)
	}
	return nil
}

// Noop 仅记录日志的投递器
type Noop struct{}

// Publish 记录事件
func (Noop) Publish(_ context.Context, topic string, key string, _ interface{}) error {
	logger.Debugw("event_publish_noop", "topic", topic, "key", key)
	return nil
}
