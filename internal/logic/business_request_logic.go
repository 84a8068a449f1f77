package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/model"
	"gorm.io/gorm"
)

// BusinessRequestLogic 店铺入驻申请业务逻辑
type BusinessRequestLogic struct {
	db           *gorm.DB
	notification *NotificationLogic
}

// NewBusinessRequestLogic 创建店铺入驻申请业务逻辑
func NewBusinessRequestLogic(db *gorm.DB) *BusinessRequestLogic {
	return &BusinessRequestLogic{
		db:           db,
		notification: NewNotificationLogic(db),
	}
}

// Submit 提交入驻申请，状态固定为 PENDING，申请人信息在提交时刻快照
func (l *BusinessRequestLogic) Submit(req *model.BusinessRequest) error {
	if err := l.validateRequest(req); err != nil {
		return err
	}

	req.Status = model.BusinessRequestStatusPending
	req.ReviewedAt = nil
	req.RestaurantID = nil

	if err := l.db.Create(req).Error; err != nil {
		return fmt.Errorf("保存店铺申请失败: %w", err)
	}

	return nil
}

// GetByID 获取申请详情
func (l *BusinessRequestLogic) GetByID(id uint) (*model.BusinessRequest, error) {
	var req model.BusinessRequest
	if err := l.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("店铺申请不存在: %d", id)
		}
		return nil, fmt.Errorf("获取店铺申请失败: %w", err)
	}
	return &req, nil
}

// ListByRequester 获取某申请人的全部申请，按提交时间倒序
func (l *BusinessRequestLogic) ListByRequester(email string) ([]model.BusinessRequest, error) {
	var requests []model.BusinessRequest
	if err := l.db.Where("requester_email = ?", email).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("获取店铺申请列表失败: %w", err)
	}
	return requests, nil
}

// ListAll 分页获取申请列表，可按状态过滤
func (l *BusinessRequestLogic) ListAll(status string, page, size int) ([]model.BusinessRequest, int64, error) {
	if err := validatePage(page, size); err != nil {
		return nil, 0, err
	}

	query := l.db.Model(&model.BusinessRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计店铺申请失败: %w", err)
	}

	var requests []model.BusinessRequest
	if err := query.Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("获取店铺申请列表失败: %w", err)
	}

	return requests, total, nil
}

// PendingCount 待审核数量
func (l *BusinessRequestLogic) PendingCount() (int64, error) {
	var count int64
	if err := l.db.Model(&model.BusinessRequest{}).
		Where("status = ?", model.BusinessRequestStatusPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计待审核申请失败: %w", err)
	}
	return count, nil
}

// Review 审核申请。PENDING -> APPROVED/REJECTED，终态后不允许再次审核。
// 状态写入、店铺落库与图片复制共用一个事务；通知在事务提交后发送，失败不回滚审核结果。
func (l *BusinessRequestLogic) Review(id uint, decision model.BusinessRequestStatus, comment string) (*model.BusinessRequest, error) {
	if decision != model.BusinessRequestStatusApproved && decision != model.BusinessRequestStatusRejected {
		return nil, ErrInvalidArgument("无效的审核结果: %s", decision)
	}

	var reviewed model.BusinessRequest
	err := l.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// 条件更新作为写写冲突守卫：并发审核只有一方能从 PENDING 流转
		res := tx.Model(&model.BusinessRequest{}).
			Where("id = ? AND status = ?", id, model.BusinessRequestStatusPending).
			Updates(map[string]interface{}{
				"status":         decision,
				"review_comment": comment,
				"reviewed_at":    now,
			})
		if res.Error != nil {
			return fmt.Errorf("更新申请状态失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var existing model.BusinessRequest
			if err := tx.First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound("店铺申请不存在: %d", id)
				}
				return fmt.Errorf("获取店铺申请失败: %w", err)
			}
			return ErrInvalidState("店铺申请已审核，当前状态: %s", existing.Status)
		}

		if err := tx.First(&reviewed, id).Error; err != nil {
			return fmt.Errorf("获取店铺申请失败: %w", err)
		}

		if decision == model.BusinessRequestStatusApproved {
			restaurant, err := l.materializeRestaurant(tx, &reviewed)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.BusinessRequest{}).
				Where("id = ?", reviewed.ID).
				Update("restaurant_id", restaurant.ID).Error; err != nil {
				return fmt.Errorf("回填店铺ID失败: %w", err)
			}
			reviewed.RestaurantID = &restaurant.ID
			logger.Info("店铺申请 %d 审核通过，创建店铺 %d", reviewed.ID, restaurant.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	l.notifyReviewed(&reviewed)
	return &reviewed, nil
}

// materializeRestaurant 从申请快照创建店铺与首图。
// 申请的图片引用复制为店铺的新图片记录，原申请记录不被修改。
func (l *BusinessRequestLogic) materializeRestaurant(tx *gorm.DB, req *model.BusinessRequest) (*model.Restaurant, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidArgument("申请缺少店铺名称，无法创建店铺")
	}
	if strings.TrimSpace(req.RoadAddressName) == "" {
		return nil, ErrInvalidArgument("申请缺少店铺地址，无法创建店铺")
	}

	restaurant := model.Restaurant{
		Name:              req.Name,
		CategoryName:      req.CategoryName,
		Phone:             req.Phone,
		RoadAddressName:   req.RoadAddressName,
		X:                 req.X,
		Y:                 req.Y,
		PlaceURL:          req.PlaceURL,
		FundingAmount:     0, // 初始众筹金额为 0
		FundingGoalAmount: req.FundingGoalAmount,
		FundingStartDate:  parseFundingDate(req.FundingStartDate),
		FundingEndDate:    parseFundingDate(req.FundingEndDate),
	}

	if err := tx.Create(&restaurant).Error; err != nil {
		return nil, fmt.Errorf("创建店铺失败: %w", err)
	}

	if req.ImageURL != "" {
		image := model.RestaurantImage{
			RestaurantID: restaurant.ID,
			ImageURL:     req.ImageURL,
			IsMain:       true,
			SortOrder:    0,
		}
		if err := tx.Create(&image).Error; err != nil {
			return nil, fmt.Errorf("创建店铺图片失败: %w", err)
		}
	}

	return &restaurant, nil
}

// notifyReviewed 审核结果通知。通知失败只记录日志，不影响已完成的审核。
func (l *BusinessRequestLogic) notifyReviewed(req *model.BusinessRequest) {
	var err error
	switch req.Status {
	case model.BusinessRequestStatusApproved:
		err = l.notification.NotifyBusinessRequestApproved(req.RequesterEmail, req.Name, req.ID)
	case model.BusinessRequestStatusRejected:
		reason := strings.TrimSpace(req.ReviewComment)
		if reason == "" {
			reason = "未填写原因"
		}
		err = l.notification.NotifyBusinessRequestRejected(req.RequesterEmail, req.Name, reason, req.ID)
	}
	if err != nil {
		logger.Error("店铺申请 %d 审核通知发送失败: %v", req.ID, err)
	}
}

// validateRequest 提交时的字段校验
func (l *BusinessRequestLogic) validateRequest(req *model.BusinessRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidArgument("店铺名称不能为空")
	}
	if strings.TrimSpace(req.RoadAddressName) == "" {
		return ErrInvalidArgument("店铺地址不能为空")
	}
	if req.Y < -90 || req.Y > 90 {
		return ErrInvalidArgument("y（纬度）超出范围 [-90, 90]")
	}
	if req.X < -180 || req.X > 180 {
		return ErrInvalidArgument("x（经度）超出范围 [-180, 180]")
	}
	if strings.TrimSpace(req.RequesterEmail) == "" {
		return ErrInvalidArgument("缺少申请人身份")
	}
	if req.FundingGoalAmount < 0 {
		return ErrInvalidArgument("众筹目标金额不能为负数")
	}
	return nil
}

// parseFundingDate 解析申请中的日期文本。空白或无法解析时返回 nil，不伪造默认日期。
func parseFundingDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		logger.Warn("日期解析失败: %q: %v", s, err)
		return nil
	}
	return &t
}
