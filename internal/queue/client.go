package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 高优先级队列，承载下单通知
	CriticalQueue = constants.QueueCritical

	defaultMaxRetry    = 5
	defaultTaskTimeout = 30 * time.Second
	defaultConcurrency = 10
)

// ErrEmptyTaskType 任务类型为空
var ErrEmptyTaskType = errors.New("queue: empty task type")

// taskQueues 任务类型与队列的对应关系，未登记的任务进入默认队列
var taskQueues = map[string]string{
	TaskOrderCreated: CriticalQueue,
}

// Client 事件任务入队客户端
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端，未启用时返回空壳客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(buildRedisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// QueueFor 返回任务类型对应的队列
func QueueFor(taskType string) string {
	if name, ok := taskQueues[taskType]; ok {
		return name
	}
	return DefaultQueue
}

// EnqueueEvent 推送事件任务，队列未启用时直接忽略
func (c *Client) EnqueueEvent(ctx context.Context, taskType string, body []byte, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	taskType = strings.TrimSpace(taskType)
	if taskType == "" {
		return ErrEmptyTaskType
	}
	if ctx == nil {
		ctx = context.Background()
	}
	options := append([]asynq.Option{
		asynq.Queue(QueueFor(taskType)),
		asynq.MaxRetry(defaultMaxRetry),
		asynq.Timeout(defaultTaskTimeout),
	}, opts...)
	if _, err := c.client.EnqueueContext(ctx, NewEventTask(taskType, body), options...); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			CriticalQueue: 6,
			DefaultQueue:  3,
		},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
