package logic

import (
	"fmt"

	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/model"
	"gorm.io/gorm"
)

// NotificationLogic 站内通知业务逻辑
type NotificationLogic struct {
	db *gorm.DB
}

// NewNotificationLogic 创建站内通知业务逻辑
func NewNotificationLogic(db *gorm.DB) *NotificationLogic {
	return &NotificationLogic{db: db}
}

// Create 写入一条通知
func (l *NotificationLogic) Create(n *model.Notification) error {
	if err := l.db.Create(n).Error; err != nil {
		return ErrDependencyFailure("通知写入失败: %v", err)
	}
	logger.Info("通知创建完成: %s - %s", n.MemberEmail, n.Title)
	return nil
}

// NotifyBusinessRequestApproved 店铺申请通过通知
func (l *NotificationLogic) NotifyBusinessRequestApproved(memberEmail, businessName string, requestID uint) error {
	return l.Create(&model.Notification{
		MemberEmail: memberEmail,
		Title:       "店铺申请已通过",
		Content:     fmt.Sprintf("'%s' 的店铺申请已通过审核，现在可以开始众筹了。", businessName),
		Type:        model.NotificationTypeBusinessRequestApproved,
		RelatedID:   &requestID,
		RelatedType: "BUSINESS_REQUEST",
	})
}

// NotifyBusinessRequestRejected 店铺申请拒绝通知
func (l *NotificationLogic) NotifyBusinessRequestRejected(memberEmail, businessName, reason string, requestID uint) error {
	return l.Create(&model.Notification{
		MemberEmail: memberEmail,
		Title:       "店铺申请未通过",
		Content:     fmt.Sprintf("'%s' 的店铺申请未通过审核。原因: %s", businessName, reason),
		Type:        model.NotificationTypeBusinessRequestRejected,
		RelatedID:   &requestID,
		RelatedType: "BUSINESS_REQUEST",
	})
}

// ListByMember 分页获取某会员的通知，按创建时间倒序
func (l *NotificationLogic) ListByMember(email string, page, size int) ([]model.Notification, int64, error) {
	if err := validatePage(page, size); err != nil {
		return nil, 0, err
	}

	query := l.db.Model(&model.Notification{}).Where("member_email = ?", email)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计通知失败: %w", err)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("获取通知列表失败: %w", err)
	}

	return notifications, total, nil
}

// UnreadCount 未读通知数量
func (l *NotificationLogic) UnreadCount(email string) (int64, error) {
	var count int64
	if err := l.db.Model(&model.Notification{}).
		Where("member_email = ? AND is_read = ?", email, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计未读通知失败: %w", err)
	}
	return count, nil
}

// MarkRead 标记单条通知已读
func (l *NotificationLogic) MarkRead(id uint) error {
	res := l.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("标记通知已读失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound("通知不存在: %d", id)
	}
	return nil
}

// MarkAllRead 标记某会员全部通知已读
func (l *NotificationLogic) MarkAllRead(email string) error {
	if err := l.db.Model(&model.Notification{}).
		Where("member_email = ? AND is_read = ?", email, false).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("标记全部已读失败: %w", err)
	}
	return nil
}

// Delete 删除单条通知
func (l *NotificationLogic) Delete(id uint) error {
	res := l.db.Delete(&model.Notification{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除通知失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound("通知不存在: %d", id)
	}
	return nil
}

// DeleteRead 删除某会员全部已读通知
func (l *NotificationLogic) DeleteRead(email string) (int64, error) {
	res := l.db.Where("member_email = ? AND is_read = ?", email, true).
		Delete(&model.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("删除已读通知失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}
