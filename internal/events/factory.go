package events

import (
	"fmt"
	"io"
	"strings"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/queue"
)

// New 按配置创建投递器，返回值已包装为尽力投递；closer 可能为 nil
func New(cfg config.EventsConfig, queueClient *queue.Client) (Publisher, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", constants.EventDriverAsynq:
		return NewBestEffort(NewAsynqPublisher(queueClient)), nil, nil
	case constants.EventDriverKafka:
		publisher, err := NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return nil, nil, err
		}
		return NewBestEffort(publisher), publisher, nil
	case constants.EventDriverNoop:
		return NewBestEffort(Noop{}), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported events driver: %s", cfg.Driver)
	}
}
