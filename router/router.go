package router

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

type Router struct {
	// 园区拓扑
	//   [Senior FF] ─stair link─ [Senior GF]·exit ┐
	//                                             ├ 室外
	//   [Primary FF] ─stair link─ [Primary GF]·exit ┘
	// 1. 每层楼是独立的道路网，楼层之间只通过楼梯或出口相连
	// 2. 同一栋楼相邻两层之间的楼梯按距离贪心匹配
	// 3. 跨楼必须经过各自带出口的楼层
	// 构建完成后只读，多个请求可以同时规划
	floors    map[string]*Floor
	buildings map[string]map[int]*Floor
	// building -> 较低层level -> 与上一层的楼梯对应关系
	links map[string]map[int]*stairLink
}

func New(data []FloorData) (*Router, error) {
	r := &Router{
		floors:    make(map[string]*Floor, len(data)),
		buildings: make(map[string]map[int]*Floor),
		links:     make(map[string]map[int]*stairLink),
	}
	for i := range data {
		f, err := NewFloor(&data[i])
		if err != nil {
			return nil, err
		}
		if _, ok := r.floors[f.name]; ok {
			return nil, fmt.Errorf("%w: duplicated floor name %q", ErrInvalidFloor, f.name)
		}
		levels, ok := r.buildings[f.building]
		if !ok {
			levels = make(map[int]*Floor)
			r.buildings[f.building] = levels
		}
		if other, ok := levels[f.level]; ok {
			return nil, fmt.Errorf("%w: floors %q and %q share level %d of building %q",
				ErrInvalidFloor, other.name, f.name, f.level, f.building)
		}
		levels[f.level] = f
		r.floors[f.name] = f
	}
	// 相邻楼层的楼梯匹配
	for building, levels := range r.buildings {
		sorted := r.levels(building)
		r.links[building] = make(map[int]*stairLink)
		for i := 0; i+1 < len(sorted); i++ {
			lower, upper := levels[sorted[i]], levels[sorted[i+1]]
			r.links[building][lower.level] = newStairLink(lower, upper)
		}
	}
	log.Infof("campus loaded: %d floors in %d buildings", len(r.floors), len(r.buildings))
	return r, nil
}

// getter

func (r *Router) HasFloor(name string) bool {
	_, ok := r.floors[name]
	return ok
}

func (r *Router) Floor(name string) (*Floor, error) {
	f, ok := r.floors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFloorNotFound, name)
	}
	return f, nil
}

// 按楼名、楼层排序
func (r *Router) Floors() []*Floor {
	floors := lo.Values(r.floors)
	sort.Slice(floors, func(i, j int) bool {
		if floors[i].building != floors[j].building {
			return floors[i].building < floors[j].building
		}
		return floors[i].level < floors[j].level
	})
	return floors
}

func (r *Router) levels(building string) []int {
	levels := lo.Keys(r.buildings[building])
	sort.Ints(levels)
	return levels
}

// 楼内带出口的最低楼层
func (r *Router) exitFloor(building string) (*Floor, bool) {
	for _, level := range r.levels(building) {
		if f := r.buildings[building][level]; f.HasExit() {
			return f, true
		}
	}
	return nil, false
}

// 沿楼梯从from层走到to层，返回到达to层时的楼梯编号
func (r *Router) followStairs(from, to *Floor, idx int) (int, error) {
	if from.building != to.building {
		return -1, fmt.Errorf("%w: stairs between buildings %q and %q",
			ErrInvalidEndpointPairing, from.building, to.building)
	}
	levels := r.levels(from.building)
	cur := from
	for cur.level != to.level {
		pos := sort.SearchInts(levels, cur.level)
		var next *Floor
		var link *stairLink
		if to.level > cur.level {
			next = r.buildings[from.building][levels[pos+1]]
			link = r.links[from.building][cur.level]
		} else {
			next = r.buildings[from.building][levels[pos-1]]
			link = r.links[from.building][next.level]
		}
		j, ok := link.follow(cur, next, idx)
		if !ok {
			return -1, fmt.Errorf("%w: no stair on floor %s connects to stair %d of floor %s",
				ErrEndpointNotFound, next.name, idx, cur.name)
		}
		log.Debugf("stair %d of %s leads to stair %d of %s", idx, cur.name, j, next.name)
		cur, idx = next, j
	}
	return idx, nil
}

// 单层楼内规划
func (r *Router) PlanRoute(floor string, start, end Endpoint, opts ...PlanOption) (*Route, error) {
	f, err := r.Floor(floor)
	if err != nil {
		return nil, err
	}
	return f.PlanRoute(start, end, opts...)
}

// close
func (r *Router) Close() {}
