package router

import (
	"fmt"
)

type Scenario string

const (
	// 同一层楼：教室 -> 教室
	ScenarioSameFloor Scenario = "same_floor"
	// 同楼不同层：教室 -> 最近楼梯，对应楼梯 -> 教室
	ScenarioSameBuilding Scenario = "same_building"
	// 跨楼且两端都在出口层：教室 -> 出口，出口 -> 教室
	ScenarioCrossBuilding Scenario = "cross_building"
	// 跨楼且至少一端在楼上：出口与楼梯组合，3~4段
	ScenarioCrossBuildingStairs Scenario = "cross_building_stairs"
)

// 用户选择的教室
type Selection struct {
	Floor     string `json:"floor"`
	Classroom int    `json:"classroom"`
}

type Segment struct {
	Floor string
	Start Endpoint
	End   Endpoint
	Route *Route
}

type Trip struct {
	Scenario Scenario
	From, To Selection
	// 按行走顺序
	Segments []Segment
	Length   float64
}

func (t *Trip) append(f *Floor, start, end Endpoint, route *Route) {
	t.Segments = append(t.Segments, Segment{Floor: f.name, Start: start, End: end, Route: route})
	t.Length += route.Length
}

func classifyTrip(from, to *Floor, fromExit, toExit *Floor) Scenario {
	switch {
	case from == to:
		return ScenarioSameFloor
	case from.building == to.building:
		return ScenarioSameBuilding
	case from == fromExit && to == toExit:
		return ScenarioCrossBuilding
	default:
		return ScenarioCrossBuildingStairs
	}
}

// 规划两间教室之间的完整路线，每经过一层楼得到一段
func (r *Router) PlanTrip(from, to Selection, opts ...PlanOption) (*Trip, error) {
	a, err := r.Floor(from.Floor)
	if err != nil {
		return nil, err
	}
	b, err := r.Floor(to.Floor)
	if err != nil {
		return nil, err
	}
	// 提前检查教室，避免规划到一半才失败
	if !a.HasClassroom(from.Classroom) {
		return nil, fmt.Errorf("%w: classroom %d on floor %s", ErrEndpointNotFound, from.Classroom, a.name)
	}
	if !b.HasClassroom(to.Classroom) {
		return nil, fmt.Errorf("%w: classroom %d on floor %s", ErrEndpointNotFound, to.Classroom, b.name)
	}
	var aExit, bExit *Floor
	if a.building != b.building {
		var ok bool
		if aExit, ok = r.exitFloor(a.building); !ok {
			return nil, fmt.Errorf("%w: building %q has no exit", ErrInvalidEndpointPairing, a.building)
		}
		if bExit, ok = r.exitFloor(b.building); !ok {
			return nil, fmt.Errorf("%w: building %q has no exit", ErrInvalidEndpointPairing, b.building)
		}
	}

	trip := &Trip{Scenario: classifyTrip(a, b, aExit, bExit), From: from, To: to}
	log.Debugf("plan trip %v -> %v as %s", from, to, trip.Scenario)
	switch trip.Scenario {
	case ScenarioSameFloor:
		err = r.planSegment(trip, a, ClassroomEndpoint(from.Classroom), ClassroomEndpoint(to.Classroom), opts)
	case ScenarioSameBuilding:
		err = r.planStairs(trip, a, b, from, to, opts)
	case ScenarioCrossBuilding, ScenarioCrossBuildingStairs:
		err = r.planCrossBuilding(trip, a, b, aExit, bExit, from, to, opts)
	}
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (r *Router) planSegment(trip *Trip, f *Floor, start, end Endpoint, opts []PlanOption) error {
	route, err := f.PlanRoute(start, end, opts...)
	if err != nil {
		return fmt.Errorf("segment %d on floor %s: %w", len(trip.Segments)+1, f.name, err)
	}
	trip.append(f, start, end, route)
	return nil
}

// 在a层从教室走到最近楼梯，上下楼后从对应楼梯走到b层教室
func (r *Router) planStairs(trip *Trip, a, b *Floor, from, to Selection, opts []PlanOption) error {
	stair := -1
	if err := r.planSegment(trip, a, ClassroomEndpoint(from.Classroom), NearestStairEndpoint(), withStairRecorder(opts, &stair)); err != nil {
		return err
	}
	arrived, err := r.followStairs(a, b, stair)
	if err != nil {
		return err
	}
	return r.planSegment(trip, b, StairEndpoint(arrived), ClassroomEndpoint(to.Classroom), opts)
}

// 跨楼：起点楼内下到出口层并离开，终点楼从出口进入后上到目标层
func (r *Router) planCrossBuilding(trip *Trip, a, b, aExit, bExit *Floor, from, to Selection, opts []PlanOption) error {
	// 起点一侧
	if a == aExit {
		if err := r.planSegment(trip, a, ClassroomEndpoint(from.Classroom), ExitEndpoint(EXIT_FORWARD), opts); err != nil {
			return err
		}
	} else {
		stair := -1
		if err := r.planSegment(trip, a, ClassroomEndpoint(from.Classroom), NearestStairEndpoint(), withStairRecorder(opts, &stair)); err != nil {
			return err
		}
		arrived, err := r.followStairs(a, aExit, stair)
		if err != nil {
			return err
		}
		if err := r.planSegment(trip, aExit, StairEndpoint(arrived), ExitEndpoint(EXIT_FORWARD), opts); err != nil {
			return err
		}
	}

	// 终点一侧
	if b == bExit {
		return r.planSegment(trip, b, ExitEndpoint(EXIT_BACKWARD), ClassroomEndpoint(to.Classroom), opts)
	}
	// 先规划目标层，离教室最近的楼梯决定了出口层要走向哪个楼梯
	target := -1
	last, err := b.PlanRoute(NearestStairEndpoint(), ClassroomEndpoint(to.Classroom),
		withStairRecorder(opts, &target)...)
	if err != nil {
		return fmt.Errorf("segment on floor %s: %w", b.name, err)
	}
	entry, err := r.followStairs(b, bExit, target)
	if err != nil {
		return err
	}
	if err := r.planSegment(trip, bExit, ExitEndpoint(EXIT_BACKWARD), StairEndpoint(entry), opts); err != nil {
		return err
	}
	// 向下按位置回退匹配时，entry向上不一定回到target，以实际到达的楼梯为准
	arrived, err := r.followStairs(bExit, b, entry)
	if err != nil {
		return err
	}
	if arrived != target {
		log.Debugf("stair %d of %s leads back to stair %d instead of %d", entry, bExit.name, arrived, target)
		return r.planSegment(trip, b, StairEndpoint(arrived), ClassroomEndpoint(to.Classroom), opts)
	}
	trip.append(b, NearestStairEndpoint(), ClassroomEndpoint(to.Classroom), last)
	return nil
}

// 在opts之后追加记录最近楼梯编号的回调
func withStairRecorder(opts []PlanOption, stair *int) []PlanOption {
	ret := make([]PlanOption, 0, len(opts)+1)
	ret = append(ret, opts...)
	return append(ret, WithNearestStairCallback(func(i int) { *stair = i }))
}
