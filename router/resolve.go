package router

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router/algo"
)

// 将端点描述转换为坐标
// ref只在最近楼梯时使用，为同一条路径另一端的坐标
func (f *Floor) Resolve(ep Endpoint, ref *geometry.Point) (Resolved, error) {
	switch ep.Kind {
	case EndpointClassroom:
		c, ok := f.classrooms[ep.Index]
		if !ok {
			return Resolved{}, fmt.Errorf("%w: classroom %d on floor %s", ErrEndpointNotFound, ep.Index, f.name)
		}
		return Resolved{
			Kind:        EndpointClassroom,
			Position:    c.Position,
			HasCorridor: true,
			CorridorID:  c.CorridorID,
			StairIndex:  -1,
		}, nil
	case EndpointStair:
		if ep.Index < 0 || ep.Index >= len(f.stairs) {
			return Resolved{}, fmt.Errorf("%w: stair index %d out of range [0, %d) on floor %s",
				ErrEndpointNotFound, ep.Index, len(f.stairs), f.name)
		}
		return f.resolveStair(f.stairs[ep.Index]), nil
	case EndpointNearestStair:
		if ref == nil {
			return Resolved{}, fmt.Errorf("%w on floor %s", ErrMissingReference, f.name)
		}
		s, ok := f.NearestStair(*ref)
		if !ok {
			return Resolved{}, fmt.Errorf("%w: no stairs on floor %s", ErrEndpointNotFound, f.name)
		}
		log.Debugf("nearest stair to %v on floor %s is %d", *ref, f.name, s.Index)
		return f.resolveStair(s), nil
	case EndpointExit:
		if !f.HasExit() {
			return Resolved{}, fmt.Errorf("%w: floor %s has no exit", ErrEndpointNotFound, f.name)
		}
		var polyline []geometry.Point
		switch ep.Index {
		case EXIT_FORWARD:
			polyline = append([]geometry.Point(nil), f.exit...)
		case EXIT_BACKWARD:
			polyline = algo.Reverse(f.exit)
		default:
			return Resolved{}, fmt.Errorf("%w: exit variant %d", ErrEndpointNotFound, ep.Index)
		}
		return Resolved{
			Kind:       EndpointExit,
			Position:   polyline[0],
			StairIndex: -1,
			Polyline:   polyline,
		}, nil
	default:
		return Resolved{}, fmt.Errorf("%w: unknown endpoint kind %d", ErrInvalidEndpointPairing, ep.Kind)
	}
}

func (f *Floor) resolveStair(s *StairPoint) Resolved {
	return Resolved{
		Kind:        EndpointStair,
		Position:    s.Position,
		HasCorridor: true,
		CorridorID:  s.CorridorID,
		StairIndex:  s.Index,
	}
}

// 全部楼梯中距离p最近的一个，不限于p所在走廊
// 距离相同时取编号小的
func (f *Floor) NearestStair(p geometry.Point) (*StairPoint, bool) {
	i := algo.ClosestPointIndex(f.StairPositions(), p)
	if i < 0 {
		return nil, false
	}
	return f.stairs[i], true
}
