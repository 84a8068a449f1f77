package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/config"
	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/KessokuMAS/PickTogether/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ForOneHandler struct {
	forOne    *logic.ForOneLogic
	discovery *logic.DiscoveryLogic
	cfg       config.DiscoveryConfig
}

func NewForOneHandler(db *gorm.DB, cfg config.DiscoveryConfig) *ForOneHandler {
	return &ForOneHandler{
		forOne:    logic.NewForOneLogic(db),
		discovery: logic.NewDiscoveryLogic(db),
		cfg:       cfg,
	}
}

// GetNearby 检索附近进行中的拼单
func (h *ForOneHandler) GetNearby(c *gin.Context) {
	lat, lng, radius, err := parseGeoQuery(c, h.cfg.DefaultRadius)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	page, size := parsePageQuery(c)

	timeout := time.Duration(h.cfg.QueryTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	thumbs, total, err := h.discovery.NearbyForOne(ctx, lat, lng, radius, page, size, time.Now())
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":    thumbs,
		"pagination": Pagination{Page: page, PageSize: size, Total: total},
	})
}

// Create 创建拼单
func (h *ForOneHandler) Create(c *gin.Context) {
	var in logic.CreateSlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequestResponse(c, err)
		return
	}

	slot, err := h.forOne.Create(&in)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "拼单创建成功", slot)
}

// Get 获取拼单详情
func (h *ForOneHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	slot, err := h.forOne.Get(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot, "effectivePrice": slot.EffectivePrice()})
}

// Join 参与拼单
func (h *ForOneHandler) Join(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	slot, err := h.forOne.Join(id, time.Now())
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "参与成功", slot)
}

// Activate 上线拼单
func (h *ForOneHandler) Activate(c *gin.Context) {
	h.doTransition(c, h.forOne.Activate, "拼单已上线")
}

// Pause 暂停拼单
func (h *ForOneHandler) Pause(c *gin.Context) {
	h.doTransition(c, h.forOne.Pause, "拼单已暂停")
}

// Resume 恢复拼单
func (h *ForOneHandler) Resume(c *gin.Context) {
	h.doTransition(c, h.forOne.Resume, "拼单已恢复")
}

// Settle 手动触发结算（运营/外部定时器入口）
func (h *ForOneHandler) Settle(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	slot, err := h.forOne.Settle(id, time.Now())
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "结算完成", slot)
}

func (h *ForOneHandler) doTransition(c *gin.Context, fn func(uint) (*model.ForOneMenu, error), message string) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	slot, err := fn(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, message, slot)
}
