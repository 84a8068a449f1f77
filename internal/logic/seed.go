package logic

import (
	"fmt"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/model"
	"gorm.io/gorm"
)

// SeedFundingPeriods 启动时为缺失众筹期间的店铺补齐日期。
// 幂等：只补缺失的字段，已有日期不会被覆盖。
func SeedFundingPeriods(db *gorm.DB) error {
	var restaurants []model.Restaurant
	if err := db.Where("funding_start_date IS NULL OR funding_end_date IS NULL").
		Find(&restaurants).Error; err != nil {
		return fmt.Errorf("查询店铺失败: %w", err)
	}

	updated := 0
	for _, r := range restaurants {
		updates := make(map[string]interface{})

		start := time.Now().Truncate(24 * time.Hour)
		if r.FundingStartDate == nil {
			updates["funding_start_date"] = start
		} else {
			start = *r.FundingStartDate
		}
		if r.FundingEndDate == nil {
			addDays := 7 + int(r.ID%8)
			updates["funding_end_date"] = start.AddDate(0, 0, addDays)
		}

		if len(updates) == 0 {
			continue
		}
		if err := db.Model(&model.Restaurant{}).
			Where("id = ?", r.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("补齐店铺 %d 众筹期间失败: %w", r.ID, err)
		}
		updated++
	}

	logger.Info("众筹期间初始化完成: 补齐 %d 家店铺", updated)
	return nil
}
