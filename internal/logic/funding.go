package logic

import (
	"math"
)

// FundingPercent 计算众筹进度百分比。
// base 为店铺基础众筹金额，live 为支付完成的出资合计（每次查询实时重算）。
// goal <= 0 时返回 nil（无目标时不渲染 0%），否则返回 [0, 100] 内的四舍五入值。
func FundingPercent(base, live, goal int64) *int {
	if goal <= 0 {
		return nil
	}

	actual := base + live
	p := int(math.Round(float64(actual) * 100.0 / float64(goal)))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return &p
}
