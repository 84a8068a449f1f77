package logic

import (
	"math"
	"sort"
)

// earthRadiusM 地球平均半径（米）
const earthRadiusM = 6371000.0

// GeoCandidate 参与距离排序的候选点
type GeoCandidate struct {
	ID  uint
	Lat float64
	Lng float64
}

// GeoRanked 带距离标注的候选点
type GeoRanked struct {
	ID       uint
	Distance float64 // 距中心点距离（米）
}

// ValidateGeo 校验检索参数
func ValidateGeo(lat, lng, radius float64) error {
	if radius <= 0 {
		return ErrInvalidArgument("radius 必须大于 0（米）")
	}
	if lat < -90 || lat > 90 {
		return ErrInvalidArgument("lat 超出范围 [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		return ErrInvalidArgument("lng 超出范围 [-180, 180]")
	}
	return nil
}

// Distance 球面大圆距离（haversine，米）。
// 排序与展示必须共用本函数，保证两者一致。
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// RankWithin 返回半径内的候选点，按距离升序、距离相同按ID升序（保证分页稳定）
func RankWithin(lat, lng, radius float64, candidates []GeoCandidate) []GeoRanked {
	ranked := make([]GeoRanked, 0, len(candidates))
	for _, c := range candidates {
		d := Distance(lat, lng, c.Lat, c.Lng)
		if d <= radius {
			ranked = append(ranked, GeoRanked{ID: c.ID, Distance: d})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Distance != ranked[j].Distance {
			return ranked[i].Distance < ranked[j].Distance
		}
		return ranked[i].ID < ranked[j].ID
	})

	return ranked
}
