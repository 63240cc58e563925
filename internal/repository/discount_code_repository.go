package repository

import (
	"strings"

	"github.com/vestra-shop/internal/models"

	"gorm.io/gorm"
)

// DiscountCodeRepository 优惠码数据访问接口
type DiscountCodeRepository interface {
	GetByCode(code string) (*models.DiscountCode, error)
	GetByID(id uint) (*models.DiscountCode, error)
	List(filter DiscountCodeListFilter) ([]models.DiscountCode, int64, error)
	Create(code *models.DiscountCode) error
	Update(code *models.DiscountCode) error
	Delete(id uint) error
	IncrementUsage(id uint) (int64, error)
	DecrementUsage(id uint) error
	WithTx(tx *gorm.DB) DiscountCodeRepository
}

// GormDiscountCodeRepository GORM 实现
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewDiscountCodeRepository 创建优惠码仓库
func NewDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountCodeRepository) WithTx(tx *gorm.DB) DiscountCodeRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountCodeRepository{db: tx}
}

// GetByCode 根据优惠码获取（不区分大小写）
func (r *GormDiscountCodeRepository) GetByCode(code string) (*models.DiscountCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	return firstOrNil[models.DiscountCode](r.db.Where("code = ?", normalized))
}

// GetByID 根据 ID 获取优惠码
func (r *GormDiscountCodeRepository) GetByID(id uint) (*models.DiscountCode, error) {
	return firstOrNil[models.DiscountCode](r.db, id)
}

// List 优惠码列表
func (r *GormDiscountCodeRepository) List(filter DiscountCodeListFilter) ([]models.DiscountCode, int64, error) {
	query := r.db.Model(&models.DiscountCode{})
	if code := strings.TrimSpace(filter.Code); code != "" {
		query = query.Where("code LIKE ?", "%"+strings.ToUpper(code)+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	query, total, err := countAndPage(query, filter.Page, filter.PageSize, "id DESC")
	if err != nil {
		return nil, 0, err
	}
	var codes []models.DiscountCode
	if err := query.Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// Create 创建优惠码
func (r *GormDiscountCodeRepository) Create(code *models.DiscountCode) error {
	return r.db.Create(code).Error
}

// Update 更新优惠码
func (r *GormDiscountCodeRepository) Update(code *models.DiscountCode) error {
	return r.db.Save(code).Error
}

// Delete 删除优惠码
func (r *GormDiscountCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.DiscountCode{}, id).Error
}

// IncrementUsage 条件累加使用次数，达到上限时影响行数为 0
func (r *GormDiscountCodeRepository) IncrementUsage(id uint) (int64, error) {
	result := r.db.Model(&models.DiscountCode{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementUsage 取消订单时归还一次使用次数，不会减到 0 以下
func (r *GormDiscountCodeRepository) DecrementUsage(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.DiscountCode{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
