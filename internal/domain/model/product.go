package model

import "time"

type Product struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int64   `gorm:"not null;default:0" json:"stock"`

	// カテゴリ未設定の商品を許す（nullable FK）。
	// カテゴリを停止してもFKはそのまま残す（カスケードしない）。
	CategoryID *string   `gorm:"type:uuid;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}
