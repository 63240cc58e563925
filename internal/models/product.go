package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                   // 唯一标识
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`             // 名称
	Description string         `gorm:"type:text" json:"description"`                       // 描述
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`                 // 主图
	Images      StringArray    `gorm:"type:json" json:"images"`                            // 图片数组
	Category    string         `gorm:"type:varchar(60);index" json:"category"`             // 品类
	Sizes       StringArray    `gorm:"type:json" json:"sizes"`                             // 可选尺码
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 当前售价
	Stock       int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`   // 库存（不可为负）
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Snapshot 生成下单快照
func (p Product) Snapshot() ProductSnapshot {
	image := p.ImageURL
	if image == "" && len(p.Images) > 0 {
		image = p.Images[0]
	}
	return ProductSnapshot{
		Name:        p.Name,
		Slug:        p.Slug,
		ImageURL:    image,
		Description: p.Description,
	}
}
