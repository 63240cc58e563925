package models

import (
	"time"
)

// Order 订单表
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`                     // 订单编号
	UserID          uint            `gorm:"index;not null" json:"user_id"`                                // 用户ID
	TotalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 商品合计
	DiscountAmount  Money           `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	FinalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"final_amount"`    // 应付金额
	DiscountCode    *string         `gorm:"type:varchar(64);index" json:"discount_code,omitempty"`        // 使用的优惠码
	Status          string          `gorm:"type:varchar(20);index;not null" json:"status"`                // 订单状态
	PaymentStatus   string          `gorm:"type:varchar(20);index;not null" json:"payment_status"`        // 支付状态
	PaymentMethod   string          `gorm:"type:varchar(20);not null" json:"payment_method"`              // 支付方式
	ShippingAddress ShippingAddress `gorm:"type:json;not null" json:"shipping_address"`                   // 收货地址
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`                             // 买家备注
	Platform        string          `gorm:"type:varchar(20);not null;default:'web'" json:"platform"`      // 下单平台
	PaidAt          *time.Time      `gorm:"index" json:"paid_at"`                                         // 支付时间
	DeliveredAt     *time.Time      `json:"delivered_at"`                                                 // 签收时间
	CancelledAt     *time.Time      `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                      // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
