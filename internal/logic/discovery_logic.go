package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/KessokuMAS/PickTogether/internal/model"
	"gorm.io/gorm"
)

// DiscoveryLogic 附近检索业务逻辑
type DiscoveryLogic struct {
	db *gorm.DB
}

// NewDiscoveryLogic 创建附近检索业务逻辑
func NewDiscoveryLogic(db *gorm.DB) *DiscoveryLogic {
	return &DiscoveryLogic{db: db}
}

// RestaurantThumb 店铺附近检索的读模型行
type RestaurantThumb struct {
	RestaurantID       uint       `json:"restaurantId"`
	Name               string     `json:"name"`
	RoadAddressName    string     `json:"roadAddressName"`
	PlaceURL           string     `json:"placeUrl"`
	FundingAmount      int64      `json:"fundingAmount"`
	FundingGoalAmount  int64      `json:"fundingGoalAmount"`
	TotalFundingAmount int64      `json:"totalFundingAmount"`
	FundingPercent     *int       `json:"fundingPercent"`
	FundingStartDate   *time.Time `json:"fundingStartDate"`
	FundingEndDate     *time.Time `json:"fundingEndDate"`
	ImageURL           *string    `json:"imageUrl"`
	Distance           float64    `json:"distance"`
}

// ForOneThumb 单人份拼单附近检索的读模型行
type ForOneThumb struct {
	SlotID              uint      `json:"slotId"`
	MenuID              uint      `json:"menuId"`
	MenuName            string    `json:"menuName"`
	OriginalPrice       int64     `json:"originalPrice"`
	FundingPrice        *int64    `json:"fundingPrice"`
	DiscountPercent     *int      `json:"discountPercent"`
	EffectivePrice      int64     `json:"effectivePrice"`
	CurrentParticipants int       `json:"currentParticipants"`
	MinParticipants     int       `json:"minParticipants"`
	MaxParticipants     *int      `json:"maxParticipants"`
	EndsAt              time.Time `json:"endsAt"`
	RestaurantID        uint      `json:"restaurantId"`
	RestaurantName      string    `json:"restaurantName"`
	RoadAddressName     string    `json:"roadAddressName"`
	ImageURL            *string   `json:"imageUrl"`
	Distance            float64   `json:"distance"`
}

// restaurantSnapshotRow 单次快照查询的行：店铺 + 首选图片 + 实时出资合计
type restaurantSnapshotRow struct {
	ID                 uint
	Name               string
	RoadAddressName    string
	PlaceURL           string
	X                  float64
	Y                  float64
	FundingAmount      int64
	FundingGoalAmount  int64
	FundingStartDate   *time.Time
	FundingEndDate     *time.Time
	ImageURL           *string
	TotalFundingAmount int64
}

// NearbyRestaurants 检索半径内的店铺，合并首选图片与实时众筹进度。
// 图片、出资合计与店铺字段来自同一条快照查询，避免同一响应内出现撕裂读。
func (l *DiscoveryLogic) NearbyRestaurants(ctx context.Context, lat, lng, radius float64, page, size int) ([]RestaurantThumb, int64, error) {
	if err := ValidateGeo(lat, lng, radius); err != nil {
		return nil, 0, err
	}
	if err := validatePage(page, size); err != nil {
		return nil, 0, err
	}

	var rows []restaurantSnapshotRow
	err := l.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.name,
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
	`).Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("检索附近店铺失败: %w", err)
	}

	byID := make(map[uint]restaurantSnapshotRow, len(rows))
	candidates := make([]GeoCandidate, 0, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
		candidates = append(candidates, GeoCandidate{ID: row.ID, Lat: row.Y, Lng: row.X})
	}

	ranked := RankWithin(lat, lng, radius, candidates)
	total := int64(len(ranked))

	thumbs := make([]RestaurantThumb, 0, size)
	for _, r := range pageSlice(ranked, page, size) {
		row := byID[r.ID]
		thumbs = append(thumbs, RestaurantThumb{
			RestaurantID:       row.ID,
			Name:               row.Name,
			RoadAddressName:    row.RoadAddressName,
			PlaceURL:           row.PlaceURL,
			FundingAmount:      row.FundingAmount,
			FundingGoalAmount:  row.FundingGoalAmount,
			TotalFundingAmount: row.TotalFundingAmount,
			FundingPercent:     FundingPercent(row.FundingAmount, row.TotalFundingAmount, row.FundingGoalAmount),
			FundingStartDate:   row.FundingStartDate,
			FundingEndDate:     row.FundingEndDate,
			ImageURL:           row.ImageURL,
			Distance:           r.Distance,
		})
	}

	return thumbs, total, nil
}

// forOneSnapshotRow 拼单快照查询的行
type forOneSnapshotRow struct {
	ID                  uint
	MenuID              uint
	MenuName            string
	OriginalPrice       int64
	FundingPrice        *int64
	DiscountPercent     *int
	CurrentParticipants int
	MinParticipants     int
	MaxParticipants     *int
	EndsAt              time.Time
	RestaurantID        uint
	RestaurantName      string
	RoadAddressName     string
	X                   float64
	Y                   float64
	ImageURL            *string
}

// NearbyForOne 检索半径内、当前时刻处于参与窗口的 ACTIVE 拼单
func (l *DiscoveryLogic) NearbyForOne(ctx context.Context, lat, lng, radius float64, page, size int, now time.Time) ([]ForOneThumb, int64, error) {
	if err := ValidateGeo(lat, lng, radius); err != nil {
		return nil, 0, err
	}
	if err := validatePage(page, size); err != nil {
		return nil, 0, err
	}

	var rows []forOneSnapshotRow
	err := l.db.WithContext(ctx).Raw(`
		SELECT
			f.id,
			m.id   AS menu_id,
			m.name AS menu_name,
			f.original_price,
			f.funding_price,
			f.discount_percent,
			f.current_participants,
			f.min_participants,
			f.max_participants,
			f.ends_at,
			r.id   AS restaurant_id,
			r.name AS restaurant_name,
			r.road_address_name,
			r.x,
			r.y,
			m.image_url AS image_url
		FROM for_one_menu f
		JOIN menu m ON f.menu_id = m.id
		JOIN restaurant r ON m.restaurant_id = r.id
		WHERE f.status = 'ACTIVE'
		  AND f.starts_at <= ?
		  AND f.ends_at > ?
	`, now, now).Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("检索附近拼单失败: %w", err)
	}

	byID := make(map[uint]forOneSnapshotRow, len(rows))
	candidates := make([]GeoCandidate, 0, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
		candidates = append(candidates, GeoCandidate{ID: row.ID, Lat: row.Y, Lng: row.X})
	}

	ranked := RankWithin(lat, lng, radius, candidates)
	total := int64(len(ranked))

	thumbs := make([]ForOneThumb, 0, size)
	for _, r := range pageSlice(ranked, page, size) {
		row := byID[r.ID]
		slot := model.ForOneMenu{
			OriginalPrice:   row.OriginalPrice,
			DiscountPercent: row.DiscountPercent,
			FundingPrice:    row.FundingPrice,
		}
		thumbs = append(thumbs, ForOneThumb{
			SlotID:              row.ID,
			MenuID:              row.MenuID,
			MenuName:            row.MenuName,
			OriginalPrice:       row.OriginalPrice,
			FundingPrice:        row.FundingPrice,
			DiscountPercent:     row.DiscountPercent,
			EffectivePrice:      slot.EffectivePrice(),
			CurrentParticipants: row.CurrentParticipants,
			MinParticipants:     row.MinParticipants,
			MaxParticipants:     row.MaxParticipants,
			EndsAt:              row.EndsAt,
			RestaurantID:        row.RestaurantID,
			RestaurantName:      row.RestaurantName,
			RoadAddressName:     row.RoadAddressName,
			ImageURL:            row.ImageURL,
			Distance:            r.Distance,
		})
	}

	return thumbs, total, nil
}

// validatePage 校验分页参数
func validatePage(page, size int) error {
	if page < 0 {
		return ErrInvalidArgument("page 不能为负数")
	}
	if size <= 0 {
		return ErrInvalidArgument("size 必须大于 0")
	}
	return nil
}

// pageSlice 按 offset = page*size 截取一页
func pageSlice(ranked []GeoRanked, page, size int) []GeoRanked {
	offset := page * size
	if offset >= len(ranked) {
		return nil
	}
	end := offset + size
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end]
}
