package model

import (
	"time"
)

// Notification 站内通知
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MemberEmail string           `json:"member_email" gorm:"size:255;not null;index"`
	Title       string           `json:"title" gorm:"size:200;not null"`
	Content     string           `json:"content" gorm:"type:text"`
	Type        NotificationType `json:"type" gorm:"size:50;not null"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false"`

	// 关联对象（可选）
	RelatedID   *uint  `json:"related_id"`
	RelatedType string `json:"related_type" gorm:"size:50"`
}

// NotificationType 通知类型
type NotificationType string

const (
	NotificationTypeBusinessRequestApproved NotificationType = "BUSINESS_REQUEST_APPROVED" // 店铺申请通过
	NotificationTypeBusinessRequestRejected NotificationType = "BUSINESS_REQUEST_REJECTED" // 店铺申请拒绝
	NotificationTypeFundingCompleted        NotificationType = "FUNDING_COMPLETED"         // 众筹达成
	NotificationTypePaymentSuccess          NotificationType = "PAYMENT_SUCCESS"           // 支付成功
	NotificationTypeSystemNotice            NotificationType = "SYSTEM_NOTICE"             // 系统公告
)
