package model

import (
	"time"
)

// Funding 出资记录：外部支付网关确认后写入，一笔支付一条
type Funding struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MemberEmail    string `json:"member_email" gorm:"size:255;not null;index"`
	RestaurantID   uint   `json:"restaurant_id" gorm:"not null;index"`
	RestaurantName string `json:"restaurant_name" gorm:"size:200;not null"`

	// 下单的菜单信息（JSON文本）
	MenuInfo string `json:"menu_info" gorm:"type:text"`

	TotalAmount   int64  `json:"total_amount" gorm:"not null"`
	PaymentMethod string `json:"payment_method" gorm:"size:50;not null"`
	MerchantUID   string `json:"merchant_uid" gorm:"size:100;uniqueIndex"`

	// 状态（只允许向前流转）
	Status FundingStatus `json:"status" gorm:"size:20;not null;index"`

	// 关联
	Restaurant Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
}

// FundingStatus 出资状态
type FundingStatus string

const (
	FundingStatusCompleted FundingStatus = "COMPLETED" // 完成（计入聚合金额）
	FundingStatusCancelled FundingStatus = "CANCELLED" // 取消
	FundingStatusRefunded  FundingStatus = "REFUNDED"  // 退款
)
