package service

import (
	"context"
	"strings"

	"github.com/vestra-shop/internal/cache"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"
)

// UserService 用户资料与角色服务
type UserService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

var knownUserRoles = map[string]bool{
	constants.UserRoleCustomer: true,
	constants.UserRoleAdmin:    true,
	constants.UserRoleSupport:  true,
}

// ResolveAuthState 根据已校验的令牌获取用户鉴权快照，本地不存在时按令牌信息建档
func (s *UserService) ResolveAuthState(ctx context.Context, claims *TokenClaims) (*cache.UserAuthState, error) {
	if claims == nil || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	if state, hit, err := cache.GetUserAuthState(ctx, claims.UserID); err == nil && hit {
		return state, nil
	}

	user, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.provision(ctx, claims)
		if err != nil {
			return nil, err
		}
	}
	state := cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.FromContext(ctx).Warnw("user_auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
	return state, nil
}

func (s *UserService) provision(ctx context.Context, claims *TokenClaims) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, ErrTokenInvalid
	}
	role := strings.ToLower(strings.TrimSpace(claims.Role))
	if !knownUserRoles[role] {
		role = constants.UserRoleCustomer
	}
	user := &models.User{
		ID:     claims.UserID,
		Email:  email,
		Role:   role,
		Status: constants.UserStatusActive,
	}
	stored, err := s.repo.CreateIfAbsent(user)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("user_provisioned", "user_id", stored.ID, "role", stored.Role)
	return stored, nil
}

// List 管理端用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}

// UpdateUserInput 管理端更新用户
type UpdateUserInput struct {
	Role   string
	Status string
}

// Update 修改用户角色或状态，并清除鉴权缓存
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if role := strings.ToLower(strings.TrimSpace(input.Role)); role != "" {
		if !knownUserRoles[role] {
			return nil, ErrInvalidInput
		}
		user.Role = role
	}
	if status := strings.ToLower(strings.TrimSpace(input.Status)); status != "" {
		if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
			return nil, ErrInvalidInput
		}
		user.Status = status
	}
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	if err := cache.DelUserAuthState(ctx, user.ID); err != nil {
		logger.FromContext(ctx).Warnw("user_auth_state_cache_del_failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// GetEmail 获取用户邮箱（事件消费方发送邮件使用）
func (s *UserService) GetEmail(id uint) (string, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrNotFound
	}
	return user.Email, nil
}
