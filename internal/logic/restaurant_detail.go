package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/model"
)

// RestaurantDetail 店铺详情读模型
type RestaurantDetail struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	CategoryName       string     `json:"categoryName"`
	Phone              string     `json:"phone"`
	RoadAddressName    string     `json:"roadAddressName"`
	X                  float64    `json:"x"`
	Y                  float64    `json:"y"`
	PlaceURL           string     `json:"placeUrl"`
	FundingAmount      int64      `json:"fundingAmount"`
	FundingGoalAmount  int64      `json:"fundingGoalAmount"`
	TotalFundingAmount int64      `json:"totalFundingAmount"`
	FundingPercent     *int       `json:"fundingPercent"`
	FundingStartDate   *time.Time `json:"fundingStartDate"`
	FundingEndDate     *time.Time `json:"fundingEndDate"`
	ImageURL           *string    `json:"imageUrl"`
}

// RestaurantDetail 获取单个店铺详情，合并首选图片与实时众筹进度（同一条快照查询）
func (l *DiscoveryLogic) RestaurantDetail(ctx context.Context, id uint) (*RestaurantDetail, error) {
	var rows []struct {
		restaurantSnapshotRow
		CategoryName string
		Phone        string
	}
	err := l.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.name,
			r.category_name,
			r.phone,
			r.road_address_name,
			r.place_url,
			r.x,
			r.y,
			r.funding_amount,
			r.funding_goal_amount,
			r.funding_start_date,
			r.funding_end_date,
			i.image_url AS image_url,
			COALESCE(f.total, 0) AS total_funding_amount
		FROM restaurant r
		LEFT JOIN (
			SELECT t.restaurant_id, t.image_url
			FROM (
				SELECT ri.restaurant_id, ri.image_url,
				       ROW_NUMBER() OVER (
				         PARTITION BY ri.restaurant_id
				         ORDER BY ri.is_main DESC, ri.sort_order ASC, ri.id ASC
				       ) AS rn
				FROM restaurant_image ri
			) t
			WHERE t.rn = 1
		) i ON i.restaurant_id = r.id
		LEFT JOIN (
			SELECT restaurant_id, SUM(total_amount) AS total
			FROM funding
			WHERE status = 'COMPLETED'
			GROUP BY restaurant_id
		) f ON f.restaurant_id = r.id
		WHERE r.id = ?
	`, id).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("获取店铺详情失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound("店铺不存在: %d", id)
	}

	row := rows[0]
	return &RestaurantDetail{
		ID:                 row.ID,
		Name:               row.Name,
		CategoryName:       row.CategoryName,
		Phone:              row.Phone,
		RoadAddressName:    row.RoadAddressName,
		X:                  row.X,
		Y:                  row.Y,
		PlaceURL:           row.PlaceURL,
		FundingAmount:      row.FundingAmount,
		FundingGoalAmount:  row.FundingGoalAmount,
		TotalFundingAmount: row.TotalFundingAmount,
		FundingPercent:     FundingPercent(row.FundingAmount, row.TotalFundingAmount, row.FundingGoalAmount),
		FundingStartDate:   row.FundingStartDate,
		FundingEndDate:     row.FundingEndDate,
		ImageURL:           row.ImageURL,
	}, nil
}

// Menus 获取店铺菜单列表
func (l *DiscoveryLogic) Menus(ctx context.Context, restaurantID uint) ([]model.Menu, error) {
	var menus []model.Menu
	if err := l.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("id ASC").
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("获取菜单列表失败: %w", err)
	}
	return menus, nil
}
