package model

import (
	"time"
)

// Restaurant 音食店（可售卖主体）
type Restaurant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name            string `json:"name" gorm:"size:200;not null" binding:"required"`
	CategoryName    string `json:"category_name" gorm:"size:200"`
	Phone           string `json:"phone" gorm:"size:50"`
	RoadAddressName string `json:"road_address_name" gorm:"size:300"`
	PlaceURL        string `json:"place_url" gorm:"size:500"`

	// 坐标（x=经度, y=纬度）
	X float64 `json:"x" gorm:"not null"`
	Y float64 `json:"y" gorm:"not null"`

	// 众筹信息（金额单位：最小货币单位）
	FundingAmount     int64      `json:"funding_amount" gorm:"not null;default:0"`
	FundingGoalAmount int64      `json:"funding_goal_amount" gorm:"not null"`
	FundingStartDate  *time.Time `json:"funding_start_date" gorm:"type:date"`
	FundingEndDate    *time.Time `json:"funding_end_date" gorm:"type:date"`

	// 关联
	Images []RestaurantImage `json:"images,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Menus  []Menu            `json:"menus,omitempty" gorm:"foreignKey:RestaurantID"`
}

// RestaurantImage 店铺图片（仅保存外部URL引用）
type RestaurantImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RestaurantID uint   `json:"restaurant_id" gorm:"not null;index:idx_restimg_restaurant;index:idx_restimg_sort,priority:1"`
	ImageURL     string `json:"image_url" gorm:"size:1000;not null"`
	IsMain       bool   `json:"is_main" gorm:"not null;default:false"`
	SortOrder    int    `json:"sort_order" gorm:"not null;default:0;index:idx_restimg_sort,priority:2"`
}
