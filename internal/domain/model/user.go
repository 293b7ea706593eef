package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValidは定義済みロールかどうかを返す
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"column:password_hash" json:"-"` // 空ならローカルパスワードログイン不可
	Role     Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

// 予約語衝突を避けるためusersではなくapp_users
func (User) TableName() string {
	return "app_users"
}
