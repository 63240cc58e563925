package models

import (
	"time"
)

// Notification 站内通知
type Notification struct {
	ID        uint       `gorm:"primarykey" json:"id"`                        // 主键
	UserID    uint       `gorm:"index;not null" json:"user_id"`               // 接收用户
	Type      string     `gorm:"type:varchar(40);not null;index" json:"type"` // 通知类型
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`     // 标题
	Body      string     `gorm:"type:text" json:"body"`                       // 内容
	OrderID   *uint      `gorm:"index" json:"order_id,omitempty"`             // 关联订单
	ReadAt    *time.Time `gorm:"index" json:"read_at"`                        // 已读时间
	CreatedAt time.Time  `gorm:"index" json:"created_at"`                     // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
