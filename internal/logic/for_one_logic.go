package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/model"
	"gorm.io/gorm"
)

// ForOneLogic 单人份拼单业务逻辑
type ForOneLogic struct {
	db *gorm.DB
}

// NewForOneLogic 创建单人份拼单业务逻辑
func NewForOneLogic(db *gorm.DB) *ForOneLogic {
	return &ForOneLogic{db: db}
}

// CreateSlotInput 创建拼单的输入
type CreateSlotInput struct {
	MenuID          uint       `json:"menuId" binding:"required"`
	DiscountPercent *int       `json:"discountPercent"`
	FundingPrice    *int64     `json:"fundingPrice"`
	MinParticipants int        `json:"minParticipants" binding:"required"`
	MaxParticipants *int       `json:"maxParticipants"`
	StartsAt        time.Time  `json:"startsAt" binding:"required"`
	EndsAt          time.Time  `json:"endsAt" binding:"required"`
}

// Create 按菜单项开设拼单。创建时从菜单复制价格快照，之后菜单调价不影响已有拼单。
func (l *ForOneLogic) Create(in *CreateSlotInput) (*model.ForOneMenu, error) {
	if err := l.validateSlot(in); err != nil {
		return nil, err
	}

	var menu model.Menu
	if err := l.db.First(&menu, in.MenuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("菜单不存在: %d", in.MenuID)
		}
		return nil, fmt.Errorf("获取菜单失败: %w", err)
	}

	slot := model.ForOneMenu{
		MenuID:              menu.ID,
		OriginalPrice:       menu.Price, // 价格快照
		DiscountPercent:     in.DiscountPercent,
		FundingPrice:        in.FundingPrice,
		MinParticipants:     in.MinParticipants,
		MaxParticipants:     in.MaxParticipants,
		CurrentParticipants: 0,
		StartsAt:            in.StartsAt,
		EndsAt:              in.EndsAt,
		Status:              model.ForOneStatusPlanned,
	}

	if err := l.db.Create(&slot).Error; err != nil {
		return nil, fmt.Errorf("创建拼单失败: %w", err)
	}

	return &slot, nil
}

// Get 获取拼单详情
func (l *ForOneLogic) Get(id uint) (*model.ForOneMenu, error) {
	var slot model.ForOneMenu
	if err := l.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("拼单不存在: %d", id)
		}
		return nil, fmt.Errorf("获取拼单失败: %w", err)
	}
	return &slot, nil
}

// Activate 上线拼单：PLANNED -> ACTIVE
func (l *ForOneLogic) Activate(id uint) (*model.ForOneMenu, error) {
	return l.transition(id, model.ForOneStatusPlanned, model.ForOneStatusActive)
}

// Pause 暂停拼单：ACTIVE -> PAUSED
func (l *ForOneLogic) Pause(id uint) (*model.ForOneMenu, error) {
	return l.transition(id, model.ForOneStatusActive, model.ForOneStatusPaused)
}

// Resume 恢复拼单：PAUSED -> ACTIVE
func (l *ForOneLogic) Resume(id uint) (*model.ForOneMenu, error) {
	return l.transition(id, model.ForOneStatusPaused, model.ForOneStatusActive)
}

// transition 单步状态流转，条件更新防止并发下的非法流转
func (l *ForOneLogic) transition(id uint, from, to model.ForOneStatus) (*model.ForOneMenu, error) {
	res := l.db.Model(&model.ForOneMenu{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, fmt.Errorf("更新拼单状态失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		slot, err := l.Get(id)
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidState("拼单 %d 当前状态为 %s，无法流转到 %s", id, slot.Status, to)
	}
	return l.Get(id)
}

// Join 参与拼单。只有 ACTIVE 且处于 [StartsAt, EndsAt) 窗口内可参与。
// 人数增加使用单条条件更新（compare-and-increment），并发参与不会丢失更新、不会超过上限。
func (l *ForOneLogic) Join(id uint, now time.Time) (*model.ForOneMenu, error) {
	res := l.db.Model(&model.ForOneMenu{}).
		Where("id = ? AND status = ? AND starts_at <= ? AND ends_at > ?",
			id, model.ForOneStatusActive, now, now).
		Where("max_participants IS NULL OR current_participants < max_participants").
		UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("参与拼单失败: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// 没有命中条件更新，回查一次区分具体原因
		slot, err := l.Get(id)
		if err != nil {
			return nil, err
		}
		if slot.Status != model.ForOneStatusActive {
			return nil, ErrInvalidState("拼单 %d 当前状态为 %s，不可参与", id, slot.Status)
		}
		if !slot.InWindow(now) {
			return nil, ErrInvalidState("拼单 %d 不在参与时间窗口内", id)
		}
		return nil, ErrCapacityExceeded("拼单 %d 参与人数已达上限", id)
	}

	return l.Get(id)
}

// Settle 结算拼单：ACTIVE 且已过 EndsAt 的拼单按是否达标流转到 SUCCESS/FAILED。
// 状态守卫写在条件更新里，扫描任务重叠执行也不会重复结算。
func (l *ForOneLogic) Settle(id uint, now time.Time) (*model.ForOneMenu, error) {
	slot, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if slot.Status != model.ForOneStatusActive {
		return nil, ErrInvalidState("拼单 %d 当前状态为 %s，无法结算", id, slot.Status)
	}
	if now.Before(slot.EndsAt) {
		return nil, ErrInvalidState("拼单 %d 尚未到结算时间", id)
	}

	target := model.ForOneStatusFailed
	if slot.MeetsGoal() {
		target = model.ForOneStatusSuccess
	}

	res := l.db.Model(&model.ForOneMenu{}).
		Where("id = ? AND status = ?", id, model.ForOneStatusActive).
		Update("status", target)
	if res.Error != nil {
		return nil, fmt.Errorf("结算拼单失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidState("拼单 %d 已被并发结算", id)
	}

	logger.Info("拼单 %d 结算完成: %s (参与 %d / 目标 %d)",
		id, target, slot.CurrentParticipants, slot.MinParticipants)
	return l.Get(id)
}

// DueForSettle 查找已过结束时间、等待结算的 ACTIVE 拼单ID
func (l *ForOneLogic) DueForSettle(now time.Time) ([]uint, error) {
	var ids []uint
	if err := l.db.Model(&model.ForOneMenu{}).
		Where("status = ? AND ends_at <= ?", model.ForOneStatusActive, now).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询待结算拼单失败: %w", err)
	}
	return ids, nil
}

// validateSlot 创建拼单的参数校验
func (l *ForOneLogic) validateSlot(in *CreateSlotInput) error {
	if in.MinParticipants < 1 {
		return ErrInvalidArgument("minParticipants 必须大于等于 1")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants < in.MinParticipants {
		return ErrInvalidArgument("maxParticipants 不能小于 minParticipants")
	}
	if in.DiscountPercent != nil && (*in.DiscountPercent < 0 || *in.DiscountPercent > 100) {
		return ErrInvalidArgument("discountPercent 超出范围 [0, 100]")
	}
	if in.FundingPrice != nil && *in.FundingPrice < 0 {
		return ErrInvalidArgument("fundingPrice 不能为负数")
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return ErrInvalidArgument("startsAt 必须早于 endsAt")
	}
	return nil
}
