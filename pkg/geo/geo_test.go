package geo

import (
	"math"
	"testing"
)

func TestDistance_SamePoint(t *testing.T) {
	p := Point{Lat: 41.0082, Lng: 28.9784}
	if d := Distance(p, p); d != 0 {
		t.Errorf("同一点距离应为0，实际=%f", d)
	}
}

func TestDistance_KnownPairs(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		wantM     float64
		tolerance float64
	}{
		{
			// 伊斯坦布尔 → 安卡拉，约 350km
			name:      "Istanbul-Ankara",
			a:         Point{Lat: 41.0082, Lng: 28.9784},
			b:         Point{Lat: 39.9334, Lng: 32.8597},
			wantM:     351000,
			tolerance: 5000,
		},
		{
			// 纬度相差 0.001° ≈ 111m
			name:      "small-lat-offset",
			a:         Point{Lat: 41.0000, Lng: 29.0000},
			b:         Point{Lat: 41.0010, Lng: 29.0000},
			wantM:     111.2,
			tolerance: 1,
		},
		{
			// 赤道上经度相差 1° ≈ 111.2km
			name:      "equator-one-degree",
			a:         Point{Lat: 0, Lng: 0},
			b:         Point{Lat: 0, Lng: 1},
			wantM:     111195,
			tolerance: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.wantM) > tt.tolerance {
				t.Errorf("期望约 %.0fm（±%.0f），实际=%.1fm", tt.wantM, tt.tolerance, got)
			}
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Lat: 41.0082, Lng: 28.9784}
	b := Point{Lat: 41.0100, Lng: 28.9800}
	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("距离应对称: %f != %f", d1, d2)
	}
}

func TestValidate_InRange(t *testing.T) {
	center := Point{Lat: 41.0000, Lng: 29.0000}
	// 约 55m 外的点
	p := Point{Lat: 41.0005, Lng: 29.0000}

	v, err := Validate(center, 100, p)
	if err != nil {
		t.Fatalf("Validate 应成功: %v", err)
	}
	if !v.InRange {
		t.Errorf("55m 的点应在 100m 围栏内，距离=%.1f", v.DistanceM)
	}
	if v.DistanceM <= 0 {
		t.Errorf("距离应为正，实际=%f", v.DistanceM)
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	center := Point{Lat: 41.0000, Lng: 29.0000}
	// 约 111m 外的点
	p := Point{Lat: 41.0010, Lng: 29.0000}

	v, err := Validate(center, 50, p)
	if err != nil {
		t.Fatalf("Validate 应成功: %v", err)
	}
	if v.InRange {
		t.Errorf("111m 的点不应在 50m 围栏内，距离=%.1f", v.DistanceM)
	}
}

// 距离恰好等于半径时视为在围栏内（≤ 语义）
func TestValidate_BoundaryIsInRange(t *testing.T) {
	center := Point{Lat: 41.0000, Lng: 29.0000}
	p := Point{Lat: 41.0010, Lng: 29.0000}
	d := Distance(center, p)

	v, err := Validate(center, d, p)
	if err != nil {
		t.Fatalf("Validate 应成功: %v", err)
	}
	if !v.InRange {
		t.Error("距离等于半径时应判定在围栏内")
	}
}

func TestValidate_InvalidCoordinate(t *testing.T) {
	center := Point{Lat: 41.0000, Lng: 29.0000}

	cases := []Point{
		{Lat: 91, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 181},
		{Lat: 0, Lng: -181},
	}
	for _, p := range cases {
		if _, err := Validate(center, 100, p); err != ErrInvalidCoordinate {
			t.Errorf("坐标 %+v 应返回 ErrInvalidCoordinate，实际: %v", p, err)
		}
	}
}
