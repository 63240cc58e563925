package service

import (
	"strings"
	"time"

	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"
)

const defaultBannerLimit = 10

// BannerService Banner 服务
type BannerService struct {
	repo repository.BannerRepository
}

// NewBannerService 创建 Banner 服务
func NewBannerService(repo repository.BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// BannerInput 管理端 Banner 输入
type BannerInput struct {
	Title     string
	Subtitle  string
	ImageURL  string
	LinkURL   string
	Position  string
	IsActive  *bool
	StartAt   *time.Time
	EndAt     *time.Time
	SortOrder int
}

// ListPublic 前台有效 Banner
func (s *BannerService) ListPublic(position string, limit int) ([]models.Banner, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultBannerLimit
	}
	return s.repo.ListValidByPosition(strings.TrimSpace(position), limit, time.Now())
}

// List 管理端 Banner 列表
func (s *BannerService) List(filter repository.BannerListFilter) ([]models.Banner, int64, error) {
	return s.repo.List(filter)
}

// Get 获取 Banner
func (s *BannerService) Get(id uint) (*models.Banner, error) {
	banner, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}
	return banner, nil
}

// Create 创建 Banner
func (s *BannerService) Create(input BannerInput) (*models.Banner, error) {
	banner := &models.Banner{IsActive: true}
	if err := applyBannerInput(banner, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Update 更新 Banner
func (s *BannerService) Update(id uint, input BannerInput) (*models.Banner, error) {
	banner, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyBannerInput(banner, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete 删除 Banner
func (s *BannerService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func applyBannerInput(banner *models.Banner, input BannerInput) error {
	title := strings.TrimSpace(input.Title)
	image := strings.TrimSpace(input.ImageURL)
	position := strings.TrimSpace(input.Position)
	if title == "" || image == "" || position == "" {
		return ErrInvalidInput
	}
	if input.StartAt != nil && input.EndAt != nil && input.EndAt.Before(*input.StartAt) {
		return ErrInvalidInput
	}
	banner.Title = title
	banner.Subtitle = strings.TrimSpace(input.Subtitle)
	banner.ImageURL = image
	banner.LinkURL = strings.TrimSpace(input.LinkURL)
	banner.Position = position
	banner.StartAt = input.StartAt
	banner.EndAt = input.EndAt
	banner.SortOrder = input.SortOrder
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}
	return nil
}
