package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPStoreDisabled Redis 未启用
var ErrOTPStoreDisabled = errors.New("otp store requires redis")

// OTPRecord 一次性验证码记录（只保存哈希）
type OTPRecord struct {
	Hash     string
	Attempts int
	TTL      time.Duration
}

// OTPStore 基于 Redis 的验证码存储，过期由 key TTL 控制
type OTPStore struct {
	client func() *redis.Client
}

// NewOTPStore 使用全局 Redis 客户端创建验证码存储
func NewOTPStore() *OTPStore {
	return &OTPStore{client: Client}
}

// NewOTPStoreWithClient 使用指定客户端创建验证码存储
func NewOTPStoreWithClient(client *redis.Client) *OTPStore {
	return &OTPStore{client: func() *redis.Client { return client }}
}

// OTPKey 验证码 key：<prefix>:otp:<purpose>:<email>
func OTPKey(purpose, email string) string {
	return buildKey(fmt.Sprintf("otp:%s:%s", strings.TrimSpace(purpose), strings.ToLower(strings.TrimSpace(email))))
}

// Save 保存验证码哈希并重置尝试次数
func (s *OTPStore) Save(ctx context.Context, purpose, email, hash string, ttl time.Duration) error {
	client := s.client()
	if client == nil {
		return ErrOTPStoreDisabled
	}
	key := OTPKey(purpose, email)
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "hash", hash, "attempts", 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// Get 读取验证码记录，不存在或已过期时返回 false
func (s *OTPStore) Get(ctx context.Context, purpose, email string) (*OTPRecord, bool, error) {
	client := s.client()
	if client == nil {
		return nil, false, ErrOTPStoreDisabled
	}
	key := OTPKey(purpose, email)
	values, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	hash, ok := values["hash"]
	if !ok || hash == "" {
		return nil, false, nil
	}
	attempts, _ := strconv.Atoi(values["attempts"])
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	return &OTPRecord{Hash: hash, Attempts: attempts, TTL: ttl}, true, nil
}

// IncrAttempts 累加失败次数
func (s *OTPStore) IncrAttempts(ctx context.Context, purpose, email string) (int, error) {
	client := s.client()
	if client == nil {
		return 0, ErrOTPStoreDisabled
	}
	count, err := client.HIncrBy(ctx, OTPKey(purpose, email), "attempts", 1).Result()
	return int(count), err
}

// Delete 删除验证码
func (s *OTPStore) Delete(ctx context.Context, purpose, email string) error {
	client := s.client()
	if client == nil {
		return ErrOTPStoreDisabled
	}
	return client.Del(ctx, OTPKey(purpose, email)).Err()
}
