package algo

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

// 在点集中找到距离p最近的点的下标，距离相同时取先出现的点，空集返回-1
func ClosestPointIndex(points []geometry.Point, p geometry.Point) int {
	closest := -1
	minDistance := math.Inf(0)
	for i, q := range points {
		if d := geometry.Distance(q, p); d < minDistance {
			minDistance = d
			closest = i
		}
	}
	return closest
}

// 折线总长度
func PolylineLength(points []geometry.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	lengths := geometry.GetPolylineLengths2D(points)
	return lengths[len(lengths)-1]
}

func Midpoint(a, b geometry.Point) geometry.Point {
	return geometry.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// 返回逆序的拷贝，不修改输入
func Reverse(points []geometry.Point) []geometry.Point {
	return lo.Reverse(append([]geometry.Point(nil), points...))
}

func SamePoint(a, b geometry.Point) bool {
	return math.Abs(a.X-b.X) < EPSILON && math.Abs(a.Y-b.Y) < EPSILON
}
