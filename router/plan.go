package router

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router/algo"
	"github.com/samber/lo"
)

type planOptions struct {
	onNearestStair func(int)
	strict         bool
}

type PlanOption func(*planOptions)

// 解析出最近楼梯时回调其编号，供下一段路径使用，多个回调按添加顺序调用
func WithNearestStairCallback(fn func(stairIndex int)) PlanOption {
	return func(o *planOptions) {
		prev := o.onNearestStair
		if prev == nil {
			o.onNearestStair = fn
			return
		}
		o.onNearestStair = func(i int) {
			prev(i)
			fn(i)
		}
	}
}

// 无法搜索也无法回退时返回ErrDegenerateGraph，而不是退化为直线
func WithStrict() PlanOption {
	return func(o *planOptions) {
		o.strict = true
	}
}

// 检查端点组合
func checkPairing(start, end Endpoint) error {
	switch {
	case start.Kind == EndpointNearestStair && end.Kind == EndpointNearestStair:
		return fmt.Errorf("%w: both endpoints request the nearest stair", ErrInvalidEndpointPairing)
	case start.Kind == EndpointNearestStair && end.Kind != EndpointClassroom,
		end.Kind == EndpointNearestStair && start.Kind != EndpointClassroom:
		return fmt.Errorf("%w: nearest stair requires the other endpoint to be a classroom, got %v -> %v",
			ErrInvalidEndpointPairing, start, end)
	case start.Kind == EndpointExit && end.Kind == EndpointExit:
		return fmt.Errorf("%w: exit -> exit", ErrInvalidEndpointPairing)
	}
	return nil
}

// 规划楼层内从start到end的路径
func (f *Floor) PlanRoute(start, end Endpoint, opts ...PlanOption) (*Route, error) {
	o := &planOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if err := checkPairing(start, end); err != nil {
		return nil, err
	}

	var startResolved, endResolved Resolved
	var err error
	switch {
	case start.Kind == EndpointNearestStair:
		// 先解析教室，作为最近楼梯的参考点
		if endResolved, err = f.Resolve(end, nil); err != nil {
			return nil, err
		}
		ref := endResolved.Position
		if startResolved, err = f.Resolve(start, &ref); err != nil {
			return nil, err
		}
	case end.Kind == EndpointNearestStair:
		if startResolved, err = f.Resolve(start, nil); err != nil {
			return nil, err
		}
		ref := startResolved.Position
		if endResolved, err = f.Resolve(end, &ref); err != nil {
			return nil, err
		}
	default:
		if startResolved, err = f.Resolve(start, nil); err != nil {
			return nil, err
		}
		if endResolved, err = f.Resolve(end, nil); err != nil {
			return nil, err
		}
	}

	if o.onNearestStair != nil {
		if start.Kind == EndpointNearestStair {
			o.onNearestStair(startResolved.StairIndex)
		}
		if end.Kind == EndpointNearestStair {
			o.onNearestStair(endResolved.StairIndex)
		}
	}

	route := f.PlanResolved(startResolved, endResolved)
	if route.Degenerate && o.strict {
		return nil, fmt.Errorf("%w: %v -> %v on floor %s", ErrDegenerateGraph, start, end, f.name)
	}
	return route, nil
}

// 对已解析的端点规划路径
// 同一走廊内直接连线，否则在道路网上做广度优先搜索
func (f *Floor) PlanResolved(start, end Resolved) *Route {
	sp := start.ConnectionPoint(true)
	ep := end.ConnectionPoint(false)

	if start.HasCorridor && end.HasCorridor && start.CorridorID == end.CorridorID {
		return newDirectRoute(start, end, sp, ep)
	}

	cp1 := f.graph.ClosestNode(sp)
	cp2 := f.graph.ClosestNode(ep)
	path := lo.Map(f.graph.ShortestPath(cp1, cp2), func(item algo.PathItem[WaypointAttr], _ int) int {
		return item.NodeID
	})
	fallback := false
	if len(path) <= 1 {
		turning, ok := f.corridorTurningPoint(start, end)
		if !ok {
			log.Warnf("floor %s: no path between waypoint %d and %d and no corridor geometry, using a direct line",
				f.name, cp1, cp2)
			route := newDirectRoute(start, end, sp, ep)
			route.Degenerate = true
			return route
		}
		mid := f.graph.ClosestNode(turning)
		// 吸附到同一waypoint时合并
		path = lo.Reduce([]int{mid, cp2}, func(ids []int, id int, _ int) []int {
			if ids[len(ids)-1] != id {
				ids = append(ids, id)
			}
			return ids
		}, []int{cp1})
		fallback = true
		log.Debugf("floor %s: search between waypoint %d and %d degenerated, turning at waypoint %d",
			f.name, cp1, cp2, mid)
	}

	points := make([]geometry.Point, 0, len(path)+len(start.Polyline)+len(end.Polyline)+2)
	if start.IsPolyline() {
		points = append(points, start.Polyline...)
	} else {
		points = append(points, sp)
	}
	for _, id := range path {
		points = append(points, f.graph.Position(id))
	}
	if end.IsPolyline() {
		points = append(points, end.Polyline...)
	} else {
		points = append(points, ep)
	}
	polyline := compactPolyline(points)
	return &Route{
		Kind:      RouteRouted,
		Start:     start,
		End:       end,
		Waypoints: path,
		Polyline:  polyline,
		Length:    algo.PolylineLength(polyline),
		Fallback:  fallback,
	}
}

func newDirectRoute(start, end Resolved, sp, ep geometry.Point) *Route {
	polyline := []geometry.Point{sp, ep}
	return &Route{
		Kind:     RouteDirect,
		Start:    start,
		End:      end,
		Polyline: polyline,
		Length:   algo.PolylineLength(polyline),
	}
}

// 两端走廊中心连线的中点，任一端没有走廊时返回false
func (f *Floor) corridorTurningPoint(start, end Resolved) (geometry.Point, bool) {
	if !start.HasCorridor || !end.HasCorridor {
		return geometry.Point{}, false
	}
	startCorridor, ok := f.corridors[start.CorridorID]
	if !ok {
		return geometry.Point{}, false
	}
	endCorridor, ok := f.corridors[end.CorridorID]
	if !ok {
		return geometry.Point{}, false
	}
	return algo.Midpoint(startCorridor.Center(), endCorridor.Center()), true
}

// 去掉相邻的重复点，保留首尾两点
func compactPolyline(points []geometry.Point) []geometry.Point {
	if len(points) < 2 {
		return points
	}
	ret := []geometry.Point{points[0]}
	for _, p := range points[1 : len(points)-1] {
		if !algo.SamePoint(p, ret[len(ret)-1]) {
			ret = append(ret, p)
		}
	}
	last := points[len(points)-1]
	if len(ret) > 1 && algo.SamePoint(last, ret[len(ret)-1]) {
		ret[len(ret)-1] = last
	} else {
		ret = append(ret, last)
	}
	return ret
}
