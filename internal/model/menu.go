package model

import (
	"time"
)

// Menu 店铺菜单项
type Menu struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RestaurantID uint   `json:"restaurant_id" gorm:"index"`
	Name         string `json:"name" gorm:"size:200;not null" binding:"required"`
	Description  string `json:"description" gorm:"type:text"`
	Price        int64  `json:"price" gorm:"not null"`
	ImageURL     string `json:"image_url" gorm:"size:1000"`

	// 关联
	Restaurant Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
}
