package handler

import (
	"net/http"

	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notifications *logic.NotificationLogic
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notifications: logic.NewNotificationLogic(db),
	}
}

// GetList 分页获取本人通知
func (h *NotificationHandler) GetList(c *gin.Context) {
	page, size := parsePageQuery(c)

	notifications, total, err := h.notifications.ListByMember(c.GetString("userEmail"), page, size)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination":    Pagination{Page: page, PageSize: size, Total: total},
	})
}

// GetUnreadCount 未读通知数量
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.GetString("userEmail"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead 标记单条通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	if err := h.notifications.MarkRead(id); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "通知已读", nil)
}

// MarkAllRead 标记全部通知已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.GetString("userEmail")); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "全部通知已读", nil)
}

// Delete 删除单条通知
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	if err := h.notifications.Delete(id); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "通知已删除", nil)
}

// DeleteRead 删除全部已读通知
func (h *NotificationHandler) DeleteRead(c *gin.Context) {
	deleted, err := h.notifications.DeleteRead(c.GetString("userEmail"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
