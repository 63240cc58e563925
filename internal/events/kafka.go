package events

import (
	"context"
	"strings"
	"time"

	"github.com/vestra-shop/internal/config"

	"github.com/segmentio/kafka-go"
)

// messageWriter kafka.Writer 的最小接口
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 基于 Kafka 的事件投递
type KafkaPublisher struct {
	writer      messageWriter
	topicPrefix string
	timeout     time.Duration
}

// NewKafkaPublisher 创建 Kafka 投递器，每条消息按主题前缀路由
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	acks := kafka.RequireOne
	switch cfg.RequiredAcks {
	case 0:
		acks = kafka.RequireNone
	case -1:
		acks = kafka.RequireAll
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           acks,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg), nil
}

func newKafkaPublisher(writer messageWriter, cfg config.KafkaConfig) *KafkaPublisher {
	timeout := 3 * time.Second
	if cfg.WriteTimeoutMS > 0 {
		timeout = time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	}
	return &KafkaPublisher{
		writer:      writer,
		topicPrefix: cfg.TopicPrefix,
		timeout:     timeout,
	}
}

// Publish 写入一条以 key 分区的消息
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key string, payload interface{}) error {
	body, err := Encode(topic, key, payload)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Topic: p.topicPrefix + topic,
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
	})
}

// Close 关闭底层 writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
