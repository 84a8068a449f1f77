package main

import (
	"github.com/KessokuMAS/PickTogether/internal/config"
	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/KessokuMAS/PickTogether/internal/repository"
	"github.com/KessokuMAS/PickTogether/internal/router"
	"github.com/KessokuMAS/PickTogether/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 启动时补齐缺失的众筹期间（幂等）
	if err := logic.SeedFundingPeriods(db); err != nil {
		logger.Fatal("Failed to seed funding periods: %v", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, cfg)

	// 启动定时任务
	manager := scheduler.Start(db, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
