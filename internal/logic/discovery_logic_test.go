package logic

import (
	"context"
	"testing"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	centerLat = 37.5665
	centerLng = 126.9780
)

func seedRestaurantAt(t *testing.T, db *gorm.DB, name string, lat, lng float64, amount, goal int64) *model.Restaurant {
	t.Helper()
	restaurant := model.Restaurant{
		Name:              name,
		RoadAddressName:   "首尔中区世宗大路110",
		PlaceURL:          "https://place.example.com/" + name,
		X:                 lng,
		Y:                 lat,
		FundingAmount:     amount,
		FundingGoalAmount: goal,
	}
	require.NoError(t, db.Create(&restaurant).Error)
	return &restaurant
}

func seedImage(t *testing.T, db *gorm.DB, restaurantID uint, url string, isMain bool, sortOrder int) {
	t.Helper()
	require.NoError(t, db.Create(&model.RestaurantImage{
		RestaurantID: restaurantID,
		ImageURL:     url,
		IsMain:       isMain,
		SortOrder:    sortOrder,
	}).Error)
}

func seedFunding(t *testing.T, db *gorm.DB, restaurantID uint, amount int64, status model.FundingStatus, uid string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Funding{
		MemberEmail:  "backer@example.com",
		RestaurantID: restaurantID,
		TotalAmount:  amount,
		MerchantUID:  uid,
		Status:       status,
	}).Error)
}

func TestNearbyRestaurants(t *testing.T) {
	db := newTestDB(t)
	l := NewDiscoveryLogic(db)

	// 0.001 度纬度差约 111 米
	near := seedRestaurantAt(t, db, "近处店", centerLat, centerLng, 5000, 100000)
	mid := seedRestaurantAt(t, db, "中距店", centerLat+0.001, centerLng, 0, 0)
	far := seedRestaurantAt(t, db, "远处店", centerLat+0.01, centerLng, 0, 50000)
	seedRestaurantAt(t, db, "圈外店", centerLat+1, centerLng, 0, 0)

	// 近处店：非主图排序靠前，但主图优先
	seedImage(t, db, near.ID, "sorted-first.jpg", false, 0)
	seedImage(t, db, near.ID, "main.jpg", true, 2)
	// 远处店：两张主图，按 sort_order 决出首选
	seedImage(t, db, far.ID, "main-b.jpg", true, 1)
	seedImage(t, db, far.ID, "main-a.jpg", true, 0)

	// 只有 COMPLETED 计入实时出资
	seedFunding(t, db, near.ID, 30000, model.FundingStatusCompleted, "uid-1")
	seedFunding(t, db, near.ID, 15000, model.FundingStatusCompleted, "uid-2")
	seedFunding(t, db, near.ID, 99999, model.FundingStatusCancelled, "uid-3")

	thumbs, total, err := l.NearbyRestaurants(context.Background(), centerLat, centerLng, 2000, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, thumbs, 3)

	// 按距离升序
	assert.Equal(t, near.ID, thumbs[0].RestaurantID)
	assert.Equal(t, mid.ID, thumbs[1].RestaurantID)
	assert.Equal(t, far.ID, thumbs[2].RestaurantID)
	assert.InDelta(t, 0, thumbs[0].Distance, 1)
	assert.InDelta(t, 111, thumbs[1].Distance, 2)
	assert.InDelta(t, 1112, thumbs[2].Distance, 15)

	// 首选图片：主图优先于排序，主图之间比 sort_order
	require.NotNil(t, thumbs[0].ImageURL)
	assert.Equal(t, "main.jpg", *thumbs[0].ImageURL)
	assert.Nil(t, thumbs[1].ImageURL)
	require.NotNil(t, thumbs[2].ImageURL)
	assert.Equal(t, "main-a.jpg", *thumbs[2].ImageURL)

	// 进度 = (基础 + COMPLETED 合计) / 目标，目标为 0 时为 nil
	assert.Equal(t, int64(45000), thumbs[0].TotalFundingAmount)
	require.NotNil(t, thumbs[0].FundingPercent)
	assert.Equal(t, 50, *thumbs[0].FundingPercent)
	assert.Nil(t, thumbs[1].FundingPercent)
	require.NotNil(t, thumbs[2].FundingPercent)
	assert.Equal(t, 0, *thumbs[2].FundingPercent)
}

func TestNearbyRestaurantsPaging(t *testing.T) {
	db := newTestDB(t)
	l := NewDiscoveryLogic(db)

	for i := 0; i < 5; i++ {
		seedRestaurantAt(t, db, "店", centerLat+float64(i)*0.001, centerLng, 0, 0)
	}

	page0, total, err := l.NearbyRestaurants(context.Background(), centerLat, centerLng, 5000, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page0, 2)

	page2, total, err := l.NearbyRestaurants(context.Background(), centerLat, centerLng, 5000, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page2, 1)

	// 越界页返回空页，total 不变
	page9, total, err := l.NearbyRestaurants(context.Background(), centerLat, centerLng, 5000, 9, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, page9)

	// 不同页之间距离单调不减
	assert.LessOrEqual(t, page0[1].Distance, page2[0].Distance)
}

func TestNearbyRestaurantsInvalidInput(t *testing.T) {
	l := NewDiscoveryLogic(newTestDB(t))

	tests := []struct {
		name             string
		lat, lng, radius float64
		page, size       int
	}{
		{"negative radius", centerLat, centerLng, -1, 0, 20},
		{"lat out of range", 91, centerLng, 1000, 0, 20},
		{"negative page", centerLat, centerLng, 1000, -1, 20},
		{"zero size", centerLat, centerLng, 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.NearbyRestaurants(context.Background(), tt.lat, tt.lng, tt.radius, tt.page, tt.size)
			require.Error(t, err)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
		})
	}
}

func TestNearbyForOne(t *testing.T) {
	db := newTestDB(t)
	l := NewDiscoveryLogic(db)
	fl := NewForOneLogic(db)
	now := time.Now()

	inRange := seedRestaurantAt(t, db, "拼单店", centerLat, centerLng, 0, 0)
	outRange := seedRestaurantAt(t, db, "圈外拼单店", centerLat+1, centerLng, 0, 0)

	menuURL := "bibimbap.jpg"
	menu := model.Menu{RestaurantID: inRange.ID, Name: "招牌拌饭", Price: 10000, ImageURL: menuURL}
	require.NoError(t, db.Create(&menu).Error)
	farMenu := model.Menu{RestaurantID: outRange.ID, Name: "远处拌饭", Price: 10000}
	require.NoError(t, db.Create(&farMenu).Error)

	// 窗口内 ACTIVE：可见
	visible, err := fl.Create(&CreateSlotInput{
		MenuID:          menu.ID,
		DiscountPercent: intPtr(30),
		MinParticipants: 5,
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = fl.Activate(visible.ID)
	require.NoError(t, err)

	// 窗口未开始的 ACTIVE：不可见
	pending, err := fl.Create(&CreateSlotInput{
		MenuID:          menu.ID,
		MinParticipants: 5,
		StartsAt:        now.Add(time.Hour),
		EndsAt:          now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = fl.Activate(pending.ID)
	require.NoError(t, err)

	// 窗口内但仍为 PLANNED：不可见
	_, err = fl.Create(&CreateSlotInput{
		MenuID:          menu.ID,
		MinParticipants: 5,
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(time.Hour),
	})
	require.NoError(t, err)

	// 圈外的 ACTIVE：不可见
	outside, err := fl.Create(&CreateSlotInput{
		MenuID:          farMenu.ID,
		MinParticipants: 5,
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = fl.Activate(outside.ID)
	require.NoError(t, err)

	thumbs, total, err := l.NearbyForOne(context.Background(), centerLat, centerLng, 2000, 0, 20, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, thumbs, 1)

	thumb := thumbs[0]
	assert.Equal(t, visible.ID, thumb.SlotID)
	assert.Equal(t, menu.ID, thumb.MenuID)
	assert.Equal(t, "招牌拌饭", thumb.MenuName)
	assert.Equal(t, int64(10000), thumb.OriginalPrice)
	assert.Equal(t, int64(7000), thumb.EffectivePrice)
	assert.Equal(t, "拼单店", thumb.RestaurantName)
	require.NotNil(t, thumb.ImageURL)
	assert.Equal(t, menuURL, *thumb.ImageURL)
	assert.InDelta(t, 0, thumb.Distance, 1)
}
