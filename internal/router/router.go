package router

import (
	"net/http"

	"github.com/KessokuMAS/PickTogether/internal/config"
	"github.com/KessokuMAS/PickTogether/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "picktogether",
		})
	})

	api := r.Group("/api")
	{
		// 店铺检索路由
		restaurantHandler := handler.NewRestaurantHandler(db, cfg.Discovery)
		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("/nearby", restaurantHandler.GetNearby)
			restaurants.GET("/:id", restaurantHandler.GetDetail)
			restaurants.GET("/:id/menus", restaurantHandler.GetMenus)
		}

		// 单人份拼单路由
		forOneHandler := handler.NewForOneHandler(db, cfg.Discovery)
		forOne := api.Group("/for-one")
		{
			forOne.GET("/nearby", forOneHandler.GetNearby)
			forOne.GET("/:id", forOneHandler.Get)
			forOne.POST("", identityRequired(), forOneHandler.Create)
			forOne.POST("/:id/join", identityRequired(), forOneHandler.Join)
			forOne.POST("/:id/activate", identityRequired(), forOneHandler.Activate)
			forOne.POST("/:id/pause", identityRequired(), forOneHandler.Pause)
			forOne.POST("/:id/resume", identityRequired(), forOneHandler.Resume)
			forOne.POST("/:id/settle", identityRequired(), forOneHandler.Settle)
		}

		// 店铺入驻申请路由
		businessRequestHandler := handler.NewBusinessRequestHandler(db, cfg.Upload)
		businessRequests := api.Group("/business-requests", identityRequired())
		{
			businessRequests.POST("", businessRequestHandler.Create)
			businessRequests.GET("/mine", businessRequestHandler.GetMine)
			businessRequests.GET("/admin", businessRequestHandler.GetAll)
			businessRequests.GET("/admin/pending-count", businessRequestHandler.GetPendingCount)
			businessRequests.PUT("/admin/review", businessRequestHandler.Review)
		}

		// 通知路由
		notificationHandler := handler.NewNotificationHandler(db)
		notifications := api.Group("/notifications", identityRequired())
		{
			notifications.GET("", notificationHandler.GetList)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
			notifications.DELETE("/read", notificationHandler.DeleteRead)
		}
	}

	return r
}

// identityRequired 身份中间件：外部网关负责签发与校验凭证，这里只要求透传的身份头存在
func identityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少调用方身份"})
			return
		}
		c.Set("userEmail", email)
		c.Set("userNickname", c.GetHeader("X-User-Nickname"))
		c.Next()
	}
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-User-Email, X-User-Nickname")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
