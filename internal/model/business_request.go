package model

import (
	"time"
)

// BusinessRequest 店铺入驻申请（审核队列条目，审核后永久保留作为审计记录）
type BusinessRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 申请的店铺信息
	Name            string  `json:"name" gorm:"size:200;not null" binding:"required"`
	CategoryName    string  `json:"category_name" gorm:"size:200"`
	Phone           string  `json:"phone" gorm:"size:50"`
	RoadAddressName string  `json:"road_address_name" gorm:"size:300;not null"`
	X               float64 `json:"x" gorm:"not null"`
	Y               float64 `json:"y" gorm:"not null"`
	PlaceURL        string  `json:"place_url" gorm:"size:500"`

	// 申请的众筹目标与期间（审核通过前保持原始文本）
	FundingGoalAmount int64  `json:"funding_goal_amount"`
	FundingStartDate  string `json:"funding_start_date" gorm:"size:20"`
	FundingEndDate    string `json:"funding_end_date" gorm:"size:20"`

	ImageURL string `json:"image_url" gorm:"size:1000"`

	// 状态
	Status BusinessRequestStatus `json:"status" gorm:"size:20;not null;default:'PENDING';index"`

	// 提交时的申请人快照（即使会员记录变更也保持申请当时的信息）
	RequesterEmail    string `json:"requester_email" gorm:"size:255;not null;index"`
	RequesterNickname string `json:"requester_nickname" gorm:"size:255"`

	// 审核信息
	ReviewedAt    *time.Time `json:"reviewed_at"`
	ReviewComment string     `json:"review_comment" gorm:"size:1000"`

	// 审核通过后回填的店铺ID（单向引用）
	RestaurantID *uint `json:"restaurant_id"`
}

// BusinessRequestStatus 申请状态
type BusinessRequestStatus string

const (
	BusinessRequestStatusPending  BusinessRequestStatus = "PENDING"  // 待审核
	BusinessRequestStatusApproved BusinessRequestStatus = "APPROVED" // 已通过
	BusinessRequestStatusRejected BusinessRequestStatus = "REJECTED" // 已拒绝
)
