package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/config"
	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RestaurantHandler struct {
	discovery *logic.DiscoveryLogic
	cfg       config.DiscoveryConfig
}

func NewRestaurantHandler(db *gorm.DB, cfg config.DiscoveryConfig) *RestaurantHandler {
	return &RestaurantHandler{
		discovery: logic.NewDiscoveryLogic(db),
		cfg:       cfg,
	}
}

// GetNearby 按距离检索附近店铺
func (h *RestaurantHandler) GetNearby(c *gin.Context) {
	lat, lng, radius, err := parseGeoQuery(c, h.cfg.DefaultRadius)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	page, size := parsePageQuery(c)

	ctx, cancel := h.queryContext(c)
	defer cancel()

	thumbs, total, err := h.discovery.NearbyRestaurants(ctx, lat, lng, radius, page, size)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":    thumbs,
		"pagination": Pagination{Page: page, PageSize: size, Total: total},
	})
}

// GetDetail 获取店铺详情
func (h *RestaurantHandler) GetDetail(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	detail, err := h.discovery.RestaurantDetail(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurant": detail})
}

// GetMenus 获取店铺菜单列表
func (h *RestaurantHandler) GetMenus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	menus, err := h.discovery.Menus(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

func (h *RestaurantHandler) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.cfg.QueryTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// parseGeoQuery 解析检索坐标参数，lat/lng 必填，radius 缺省值来自配置
func parseGeoQuery(c *gin.Context, defaultRadius float64) (lat, lng, radius float64, err error) {
	lat, err = strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, 0, logic.ErrInvalidArgument("无效的 lat: %q", c.Query("lat"))
	}
	lng, err = strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return 0, 0, 0, logic.ErrInvalidArgument("无效的 lng: %q", c.Query("lng"))
	}

	radiusStr := c.Query("radius")
	if radiusStr == "" {
		return lat, lng, defaultRadius, nil
	}
	radius, err = strconv.ParseFloat(radiusStr, 64)
	if err != nil {
		return 0, 0, 0, logic.ErrInvalidArgument("无效的 radius: %q", radiusStr)
	}
	return lat, lng, radius, nil
}

// parsePageQuery 解析分页参数（page 从 0 开始），负值和非法值交给 logic 层校验
func parsePageQuery(c *gin.Context) (page, size int) {
	var err error
	page, err = strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = -1
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil {
		size = 0
	}
	return page, size
}

// parseIDParam 解析路径中的数字ID
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, logic.ErrInvalidArgument("无效的ID: %q", c.Param("id"))
	}
	return uint(id), nil
}
