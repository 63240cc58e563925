package models

import (
	"time"
)

// OrderItem 订单项表，创建后不可修改
type OrderItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID         uint            `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID       uint            `gorm:"index;not null" json:"product_id"`                        // 商品ID
	Size            string          `gorm:"type:varchar(20);not null;default:''" json:"size"`        // 尺码
	Quantity        int             `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice       Money           `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 成交单价
	Subtotal        Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 小计
	ProductSnapshot ProductSnapshot `gorm:"type:json;not null" json:"product_snapshot"`              // 商品快照
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
