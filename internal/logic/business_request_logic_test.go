package logic

import (
	"testing"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest() *model.BusinessRequest {
	return &model.BusinessRequest{
		Name:              "蓝壶咖啡",
		CategoryName:      "咖啡店",
		Phone:             "02-1234-5678",
		RoadAddressName:   "首尔中区世宗大路110",
		X:                 126.9780,
		Y:                 37.5665,
		PlaceURL:          "https://place.example.com/1",
		FundingGoalAmount: 1000000,
		FundingStartDate:  "2024-05-01",
		FundingEndDate:    "2024-05-31",
		ImageURL:          "uploads/business-requests/abc.jpg",
		RequesterEmail:    "owner@example.com",
		RequesterNickname: "店主",
	}
}

func TestSubmit(t *testing.T) {
	l := NewBusinessRequestLogic(newTestDB(t))

	req := newRequest()
	require.NoError(t, l.Submit(req))

	saved, err := l.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessRequestStatusPending, saved.Status)
	assert.Equal(t, "owner@example.com", saved.RequesterEmail)
	assert.Equal(t, "店主", saved.RequesterNickname)
	assert.Nil(t, saved.ReviewedAt)
	assert.Nil(t, saved.RestaurantID)
}

func TestSubmitValidation(t *testing.T) {
	l := NewBusinessRequestLogic(newTestDB(t))

	tests := []struct {
		name   string
		mutate func(*model.BusinessRequest)
	}{
		{"empty name", func(r *model.BusinessRequest) { r.Name = " " }},
		{"empty address", func(r *model.BusinessRequest) { r.RoadAddressName = "" }},
		{"lat out of range", func(r *model.BusinessRequest) { r.Y = 91 }},
		{"lng out of range", func(r *model.BusinessRequest) { r.X = -181 }},
		{"missing identity", func(r *model.BusinessRequest) { r.RequesterEmail = "" }},
		{"negative goal", func(r *model.BusinessRequest) { r.FundingGoalAmount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest()
			tt.mutate(req)
			err := l.Submit(req)
			require.Error(t, err)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
		})
	}
}

func TestReviewApprove(t *testing.T) {
	db := newTestDB(t)
	l := NewBusinessRequestLogic(db)

	req := newRequest()
	require.NoError(t, l.Submit(req))

	reviewed, err := l.Review(req.ID, model.BusinessRequestStatusApproved, "资料齐全")
	require.NoError(t, err)
	assert.Equal(t, model.BusinessRequestStatusApproved, reviewed.Status)
	assert.Equal(t, "资料齐全", reviewed.ReviewComment)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.RestaurantID)

	// 落库的店铺：基础金额0，目标沿用申请，日期已解析
	var restaurant model.Restaurant
	require.NoError(t, db.First(&restaurant, *reviewed.RestaurantID).Error)
	assert.Equal(t, "蓝壶咖啡", restaurant.Name)
	assert.Equal(t, int64(0), restaurant.FundingAmount)
	assert.Equal(t, int64(1000000), restaurant.FundingGoalAmount)
	require.NotNil(t, restaurant.FundingStartDate)
	assert.Equal(t, "2024-05-01", restaurant.FundingStartDate.Format("2006-01-02"))
	require.NotNil(t, restaurant.FundingEndDate)
	assert.Equal(t, "2024-05-31", restaurant.FundingEndDate.Format("2006-01-02"))

	// 首图：申请图片引用被复制为主图，申请记录本身不变
	var images []model.RestaurantImage
	require.NoError(t, db.Where("restaurant_id = ?", restaurant.ID).Find(&images).Error)
	require.Len(t, images, 1)
	assert.True(t, images[0].IsMain)
	assert.Equal(t, 0, images[0].SortOrder)
	assert.Equal(t, req.ImageURL, images[0].ImageURL)

	audit, err := l.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/business-requests/abc.jpg", audit.ImageURL)

	// 通过通知已写入
	var notifications []model.Notification
	require.NoError(t, db.Where("member_email = ?", "owner@example.com").Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeBusinessRequestApproved, notifications[0].Type)
	assert.Contains(t, notifications[0].Content, "蓝壶咖啡")
}

func TestReviewApproveTwiceMaterializesOnce(t *testing.T) {
	db := newTestDB(t)
	l := NewBusinessRequestLogic(db)

	req := newRequest()
	require.NoError(t, l.Submit(req))

	_, err := l.Review(req.ID, model.BusinessRequestStatusApproved, "")
	require.NoError(t, err)

	_, err = l.Review(req.ID, model.BusinessRequestStatusApproved, "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	var count int64
	require.NoError(t, db.Model(&model.Restaurant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReviewReject(t *testing.T) {
	db := newTestDB(t)
	l := NewBusinessRequestLogic(db)

	req := newRequest()
	require.NoError(t, l.Submit(req))

	reviewed, err := l.Review(req.ID, model.BusinessRequestStatusRejected, "地址无法核实")
	require.NoError(t, err)
	assert.Equal(t, model.BusinessRequestStatusRejected, reviewed.Status)
	assert.Nil(t, reviewed.RestaurantID)

	// 拒绝不会创建任何店铺
	var count int64
	require.NoError(t, db.Model(&model.Restaurant{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var notifications []model.Notification
	require.NoError(t, db.Where("member_email = ?", "owner@example.com").Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeBusinessRequestRejected, notifications[0].Type)
	assert.Contains(t, notifications[0].Content, "地址无法核实")
}

func TestReviewRejectDefaultReason(t *testing.T) {
	db := newTestDB(t)
	l := NewBusinessRequestLogic(db)

	req := newRequest()
	require.NoError(t, l.Submit(req))

	_, err := l.Review(req.ID, model.BusinessRequestStatusRejected, "  ")
	require.NoError(t, err)

	var notification model.Notification
	require.NoError(t, db.First(&notification).Error)
	assert.Contains(t, notification.Content, "未填写原因")
}

func TestReviewSucceedsWhenNotificationWriteFails(t *testing.T) {
	db := newTestDB(t)
	l := NewBusinessRequestLogic(db)

	req := newRequest()
	require.NoError(t, l.Submit(req))

	// 通知存储不可用：审核结果不受影响，失败只记录日志
	require.NoError(t, db.Migrator().DropTable(&model.Notification{}))

	reviewed, err := l.Review(req.ID, model.BusinessRequestStatusApproved, "资料齐全")
	require.NoError(t, err)
	assert.Equal(t, model.BusinessRequestStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.RestaurantID)

	var restaurant model.Restaurant
	require.NoError(t, db.First(&restaurant, *reviewed.RestaurantID).Error)
	assert.Equal(t, "蓝壶咖啡", restaurant.Name)

	// 终态已持久化，不会因通知失败回滚
	saved, err := l.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessRequestStatusApproved, saved.Status)
}

func TestReviewGuards(t *testing.T) {
	l := NewBusinessRequestLogic(newTestDB(t))

	t.Run("unknown id", func(t *testing.T) {
		_, err := l.Review(9999, model.BusinessRequestStatusApproved, "")
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("invalid decision", func(t *testing.T) {
		req := newRequest()
		require.NoError(t, l.Submit(req))
		_, err := l.Review(req.ID, model.BusinessRequestStatusPending, "")
		require.Error(t, err)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})
}

func TestReviewApproveParsesBadDatesToNil(t *testing.T) {
	db := newTestDB(t)
	l := NewBusinessRequestLogic(db)

	req := newRequest()
	req.FundingStartDate = "下周"
	req.FundingEndDate = "   "
	require.NoError(t, l.Submit(req))

	reviewed, err := l.Review(req.ID, model.BusinessRequestStatusApproved, "")
	require.NoError(t, err)
	require.NotNil(t, reviewed.RestaurantID)

	var restaurant model.Restaurant
	require.NoError(t, db.First(&restaurant, *reviewed.RestaurantID).Error)
	assert.Nil(t, restaurant.FundingStartDate)
	assert.Nil(t, restaurant.FundingEndDate)
}

func TestListAndCounts(t *testing.T) {
	l := NewBusinessRequestLogic(newTestDB(t))

	for i := 0; i < 3; i++ {
		req := newRequest()
		require.NoError(t, l.Submit(req))
	}
	other := newRequest()
	other.RequesterEmail = "someone@example.com"
	require.NoError(t, l.Submit(other))

	mine, err := l.ListByRequester("owner@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	all, total, err := l.ListAll("", 0, 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(4), total)

	count, err := l.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	_, err = l.Review(other.ID, model.BusinessRequestStatusRejected, "重复申请")
	require.NoError(t, err)

	pending, total, err := l.ListAll(string(model.BusinessRequestStatusPending), 0, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
	assert.Equal(t, int64(3), total)
}

func TestParseFundingDate(t *testing.T) {
	assert.Nil(t, parseFundingDate(""))
	assert.Nil(t, parseFundingDate("   "))
	assert.Nil(t, parseFundingDate("not-a-date"))
	assert.Nil(t, parseFundingDate("2024/05/01"))

	parsed := parseFundingDate(" 2024-05-01 ")
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *parsed)
}
