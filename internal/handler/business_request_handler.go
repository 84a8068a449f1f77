package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/KessokuMAS/PickTogether/internal/config"
	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/KessokuMAS/PickTogether/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRequestHandler struct {
	requests *logic.BusinessRequestLogic
	cfg      config.UploadConfig
}

func NewBusinessRequestHandler(db *gorm.DB, cfg config.UploadConfig) *BusinessRequestHandler {
	return &BusinessRequestHandler{
		requests: logic.NewBusinessRequestLogic(db),
		cfg:      cfg,
	}
}

// Create 提交店铺入驻申请（multipart：表单字段 + 可选图片）
func (h *BusinessRequestHandler) Create(c *gin.Context) {
	x, err := strconv.ParseFloat(c.PostForm("x"), 64)
	if err != nil {
		ErrorResponse(c, logic.ErrInvalidArgument("无效的 x: %q", c.PostForm("x")))
		return
	}
	y, err := strconv.ParseFloat(c.PostForm("y"), 64)
	if err != nil {
		ErrorResponse(c, logic.ErrInvalidArgument("无效的 y: %q", c.PostForm("y")))
		return
	}

	var goalAmount int64
	if s := c.PostForm("fundingGoalAmount"); s != "" {
		goalAmount, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			ErrorResponse(c, logic.ErrInvalidArgument("无效的 fundingGoalAmount: %q", s))
			return
		}
	}

	// 图片可选，保存后只保留URL引用
	imageURL := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, err = h.saveImage(c, file.Filename)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
	}

	req := &model.BusinessRequest{
		Name:              c.PostForm("name"),
		CategoryName:      c.PostForm("categoryName"),
		Phone:             c.PostForm("phone"),
		RoadAddressName:   c.PostForm("roadAddressName"),
		X:                 x,
		Y:                 y,
		PlaceURL:          c.PostForm("placeUrl"),
		FundingGoalAmount: goalAmount,
		FundingStartDate:  c.PostForm("fundingStartDate"),
		FundingEndDate:    c.PostForm("fundingEndDate"),
		ImageURL:          imageURL,
		RequesterEmail:    c.GetString("userEmail"),
		RequesterNickname: c.GetString("userNickname"),
	}

	if err := h.requests.Submit(req); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "店铺申请提交成功", req)
}

// GetMine 查询本人提交的申请
func (h *BusinessRequestHandler) GetMine(c *gin.Context) {
	requests, err := h.requests.ListByRequester(c.GetString("userEmail"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetAll 管理端分页查询申请，支持按状态过滤
func (h *BusinessRequestHandler) GetAll(c *gin.Context) {
	page, size := parsePageQuery(c)

	requests, total, err := h.requests.ListAll(c.Query("status"), page, size)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests":   requests,
		"pagination": Pagination{Page: page, PageSize: size, Total: total},
	})
}

// GetPendingCount 待审核数量
func (h *BusinessRequestHandler) GetPendingCount(c *gin.Context) {
	count, err := h.requests.PendingCount()
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ReviewRequest 审核请求体
type ReviewRequest struct {
	ID            uint                        `json:"id" binding:"required"`
	Status        model.BusinessRequestStatus `json:"status" binding:"required"`
	ReviewComment string                      `json:"reviewComment"`
}

// Review 审核申请：通过时创建店铺，拒绝时发送带原因的通知
func (h *BusinessRequestHandler) Review(c *gin.Context) {
	var body ReviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequestResponse(c, err)
		return
	}

	reviewed, err := h.requests.Review(body.ID, body.Status, body.ReviewComment)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "审核完成", reviewed)
}

// saveImage 保存上传图片，文件名使用UUID避免冲突
func (h *BusinessRequestHandler) saveImage(c *gin.Context, filename string) (string, error) {
	if err := os.MkdirAll(h.cfg.BusinessRequestDir, 0o755); err != nil {
		return "", logic.ErrDependencyFailure("创建上传目录失败: %v", err)
	}

	name := uuid.NewString() + filepath.Ext(filename)
	dst := filepath.Join(h.cfg.BusinessRequestDir, name)

	file, err := c.FormFile("image")
	if err != nil {
		return "", logic.ErrInvalidArgument("读取上传图片失败: %v", err)
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", logic.ErrDependencyFailure("保存上传图片失败: %v", err)
	}

	return fmt.Sprintf("%s/%s", h.cfg.BusinessRequestDir, name), nil
}
