package model

import (
	"time"
)

// ForOneMenu 单人份团购档位：按菜单项开设的限时拼单
type ForOneMenu struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MenuID uint `json:"menu_id" gorm:"not null;index:idx_fom_menu"`

	// 快照价格（创建时从菜单价格复制，之后不再回读）
	OriginalPrice int64 `json:"original_price" gorm:"not null"`

	// 折扣百分比 (0~100)。FundingPrice 明确指定时仅作参考
	DiscountPercent *int `json:"discount_percent"`

	// 拼单价（明确指定）。为空时按 OriginalPrice 与 DiscountPercent 计算
	FundingPrice *int64 `json:"funding_price"`

	// 最小/最大参与人数
	MinParticipants int  `json:"min_participants" gorm:"not null"`
	MaxParticipants *int `json:"max_participants"`

	// 当前参与人数
	CurrentParticipants int `json:"current_participants" gorm:"not null;default:0"`

	// 有效期
	StartsAt time.Time `json:"starts_at" gorm:"not null;index:idx_fom_status_time,priority:2"`
	EndsAt   time.Time `json:"ends_at" gorm:"not null;index:idx_fom_status_time,priority:3"`

	// 状态
	Status ForOneStatus `json:"status" gorm:"size:20;not null;default:'PLANNED';index:idx_fom_status_time,priority:1"`

	// 关联
	Menu Menu `json:"menu,omitempty" gorm:"foreignKey:MenuID"`
}

// ForOneStatus 拼单状态
type ForOneStatus string

const (
	ForOneStatusPlanned ForOneStatus = "PLANNED" // 预定（可见不可参与）
	ForOneStatusActive  ForOneStatus = "ACTIVE"  // 进行中
	ForOneStatusSuccess ForOneStatus = "SUCCESS" // 达成目标
	ForOneStatusFailed  ForOneStatus = "FAILED"  // 未达成结束
	ForOneStatusPaused  ForOneStatus = "PAUSED"  // 运营暂停
)

// EffectivePrice 最终结算价格：明确指定的拼单价优先，否则按折扣计算
func (f *ForOneMenu) EffectivePrice() int64 {
	if f.FundingPrice != nil {
		return *f.FundingPrice
	}
	percent := int64(0)
	if f.DiscountPercent != nil {
		percent = int64(*f.DiscountPercent)
	}
	price := f.OriginalPrice - f.OriginalPrice*percent/100
	if price < 0 {
		return 0
	}
	return price
}

// MeetsGoal 是否达成最低参与人数
func (f *ForOneMenu) MeetsGoal() bool {
	return f.CurrentParticipants >= f.MinParticipants
}

// InWindow 当前时刻是否在参与窗口 [StartsAt, EndsAt) 内
func (f *ForOneMenu) InWindow(now time.Time) bool {
	return !now.Before(f.StartsAt) && now.Before(f.EndsAt)
}
