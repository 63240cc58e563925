package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// User 用户表（身份由外部服务签发，本地仅保存资料与角色）
type User struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`                        // 邮箱
	DisplayName string         `gorm:"default:''" json:"display_name"`                           // 昵称
	Role        string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"` // 角色
	Status      string         `gorm:"type:varchar(20);default:'active'" json:"status"`          // 账号状态
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// InitDefaultAdmin 将指定身份提升为管理员，不存在时建档
// 用户 ID 必须与身份服务签发的 user_id 一致
func InitDefaultAdmin(userID uint, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if userID == 0 || email == "" {
		return nil
	}
	if DB == nil {
		return errors.New("database not initialized")
	}
	var user User
	err := DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DB.Create(&User{ID: userID, Email: email, Role: "admin", Status: "active"}).Error
	}
	if err != nil {
		return fmt.Errorf("load default admin failed: %w", err)
	}
	if user.Role == "admin" {
		return nil
	}
	return DB.Model(&user).Update("role", "admin").Error
}
