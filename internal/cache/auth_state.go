package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
)

const (
	authStateTTL = 10 * time.Minute
	// authStateVersion 快照结构变更时递增，旧快照视为未命中
	authStateVersion = 2
)

// UserAuthState 用户鉴权快照
type UserAuthState struct {
	Version  int    `json:"v"`
	UserID   uint   `json:"uid"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	CachedAt int64  `json:"cached_at"`
}

// Active 用户是否处于可用状态
func (s *UserAuthState) Active() bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.Status), constants.UserStatusActive)
}

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		Version:  authStateVersion,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Status:   user.Status,
		CachedAt: time.Now().Unix(),
	}
}

// GetUserAuthState 读取鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, authStateKey(userID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	if state.Version != authStateVersion || state.UserID != userID {
		return nil, false, nil
	}
	return &state, true, nil
}

// SetUserAuthState 写入鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateTTL)
}

// DelUserAuthState 角色或状态变更后清除快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authStateKey(userID))
}
