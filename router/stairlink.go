package router

import (
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router/algo"
)

type StairPair struct {
	Lower, Upper int
	Distance     float64
}

// 上下两层楼梯的对应关系
type stairLink struct {
	lowerToUpper map[int]int
	upperToLower map[int]int
}

// 贪心匹配两层的楼梯：所有组合按距离从小到大排序，依次取两端都未使用的组合
// 距离相同时按(lower, upper)编号顺序
func MatchStairs(lower, upper []geometry.Point) []StairPair {
	all := make([]StairPair, 0, len(lower)*len(upper))
	for i, a := range lower {
		for j, b := range upper {
			all = append(all, StairPair{Lower: i, Upper: j, Distance: geometry.Distance(a, b)})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})
	usedLower := make(map[int]bool)
	usedUpper := make(map[int]bool)
	pairs := make([]StairPair, 0)
	for _, p := range all {
		if usedLower[p.Lower] || usedUpper[p.Upper] {
			continue
		}
		usedLower[p.Lower] = true
		usedUpper[p.Upper] = true
		pairs = append(pairs, p)
	}
	return pairs
}

func newStairLink(lower, upper *Floor) *stairLink {
	link := &stairLink{
		lowerToUpper: make(map[int]int),
		upperToLower: make(map[int]int),
	}
	for _, p := range MatchStairs(lower.StairPositions(), upper.StairPositions()) {
		link.lowerToUpper[p.Lower] = p.Upper
		link.upperToLower[p.Upper] = p.Lower
	}
	return link
}

// 从from层的楼梯idx到相邻的to层，没有匹配时取to层中位置最近的楼梯
func (l *stairLink) follow(from, to *Floor, idx int) (int, bool) {
	var m map[int]int
	if to.level > from.level {
		m = l.lowerToUpper
	} else {
		m = l.upperToLower
	}
	if j, ok := m[idx]; ok {
		return j, true
	}
	if idx < 0 || idx >= len(from.stairs) {
		return -1, false
	}
	j := algo.ClosestPointIndex(to.StairPositions(), from.stairs[idx].Position)
	return j, j >= 0
}
