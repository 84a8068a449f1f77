package scheduler

import (
	"sync"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/config"
	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// ForOneStatusJob 拼单结算任务：把过期的 ACTIVE 拼单流转为 SUCCESS/FAILED
type ForOneStatusJob struct {
	db     *gorm.DB
	config *config.Config
	forOne *logic.ForOneLogic
}

// NewForOneStatusJob 创建拼单结算任务
func NewForOneStatusJob(db *gorm.DB, cfg *config.Config) *ForOneStatusJob {
	return &ForOneStatusJob{
		db:     db,
		config: cfg,
		forOne: logic.NewForOneLogic(db),
	}
}

// GetName 获取任务名称
func (j *ForOneStatusJob) GetName() string {
	return "for_one_settler"
}

// GetSchedule 获取调度配置
func (j *ForOneStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *ForOneStatusJob) Execute() {
	now := time.Now()

	ids, err := j.forOne.DueForSettle(now)
	if err != nil {
		logger.Error("Failed to fetch due for-one slots: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	logger.Info("Settling %d for-one slots", len(ids))

	workers := j.config.Scheduler.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	// 协程池并发结算，每个拼单的结算本身是条件更新，重复执行也不会二次结算
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create settle pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if _, err := j.forOne.Settle(id, now); err != nil {
				// 并发结算被拒绝属于正常情况，降级为调试日志
				if logic.KindOf(err) == logic.KindInvalidState {
					logger.Debug("Slot %d already settled: %v", id, err)
				} else {
					logger.Error("Failed to settle slot %d: %v", id, err)
				}
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit settle task: %v", err)
		}
	}
	wg.Wait()

	logger.Info("For-one settle round completed")
}
