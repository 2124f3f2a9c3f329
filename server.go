package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/campusnav/labels"
	"git.fiblab.net/sim/campusnav/router"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
)

type RouteServer struct {
	// 热更新时替换router，读多写少
	mu     *xsync.RBMutex
	router *router.Router
	labels labels.Lookup

	// 接口开启true或关闭false
	ok bool
	// 条件变量
	cond *sync.Cond
}

func NewRouteServer(r *router.Router, lookup labels.Lookup) *RouteServer {
	if lookup == nil {
		lookup = labels.NewStatic(nil)
	}
	return &RouteServer{
		mu:     xsync.NewRBMutex(),
		router: r,
		labels: lookup,
		ok:     true, cond: sync.NewCond(&sync.Mutex{})}
}

// 错误码映射
func toConnectError(err error) error {
	switch {
	case errors.Is(err, router.ErrFloorNotFound), errors.Is(err, router.ErrEndpointNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, router.ErrInvalidEndpointPairing), errors.Is(err, router.ErrMissingReference):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, router.ErrDegenerateGraph):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// 暂停-恢复机制
func (s *RouteServer) wait() {
	s.cond.L.Lock()
	for !s.ok {
		// 暂停中
		s.cond.Wait()
	}
	s.cond.L.Unlock()
}

func (s *RouteServer) current() *router.Router {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	return s.router
}

func (s *RouteServer) planOptions(strict bool) []router.PlanOption {
	if strict {
		return []router.PlanOption{router.WithStrict()}
	}
	return nil
}

func (s *RouteServer) GetTrip(
	ctx context.Context,
	req *connect.Request[GetTripRequest],
) (*connect.Response[GetTripResponse], error) {
	res, err := s.planTrip(ctx, req.Msg)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(res), nil
}

func (s *RouteServer) planTrip(ctx context.Context, in *GetTripRequest) (*GetTripResponse, error) {
	s.wait()
	r := s.current()
	// 检查数据是否超出范围
	for _, sel := range []router.Selection{in.From, in.To} {
		if !r.HasFloor(sel.Floor) {
			return nil, toConnectError(fmt.Errorf("%w: %q", router.ErrFloorNotFound, sel.Floor))
		}
	}
	log.Debugf("Search trip from %+v to %+v", in.From, in.To)
	trip, err := r.PlanTrip(in.From, in.To, s.planOptions(in.Strict)...)
	if err != nil {
		return nil, toConnectError(err)
	}
	return &GetTripResponse{
		TripID:    "trip_" + uuid.New().String(),
		Scenario:  string(trip.Scenario),
		FromLabel: s.labels.Label(ctx, in.From.Floor, in.From.Classroom),
		ToLabel:   s.labels.Label(ctx, in.To.Floor, in.To.Classroom),
		Segments: lo.Map(trip.Segments, func(seg router.Segment, _ int) Segment {
			return Segment{
				Floor: seg.Floor,
				Start: formatEndpoint(seg.Start),
				End:   formatEndpoint(seg.End),
				Route: formatRoute(seg.Route),
			}
		}),
		Length: trip.Length,
	}, nil
}

func (s *RouteServer) GetRoute(
	ctx context.Context,
	req *connect.Request[GetRouteRequest],
) (*connect.Response[GetRouteResponse], error) {
	in := req.Msg
	s.wait()
	start, err := parseEndpoint(in.Start)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	end, err := parseEndpoint(in.End)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	log.Debugf("Search route on %s from %v to %v", in.Floor, start, end)
	route, err := s.current().PlanRoute(in.Floor, start, end, s.planOptions(in.Strict)...)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetRouteResponse{Route: formatRoute(route)}), nil
}

func (s *RouteServer) ListFloors(
	ctx context.Context,
	req *connect.Request[ListFloorsRequest],
) (*connect.Response[ListFloorsResponse], error) {
	s.wait()
	floors := s.current().Floors()
	if b := req.Msg.Building; b != "" {
		floors = lo.Filter(floors, func(f *router.Floor, _ int) bool {
			return f.Building() == b
		})
	}
	out := &ListFloorsResponse{Floors: make([]FloorInfo, 0, len(floors))}
	for _, f := range floors {
		w, h := f.Size()
		info := FloorInfo{
			Name:     f.Name(),
			Building: f.Building(),
			Level:    f.Level(),
			Width:    w,
			Height:   h,
			HasExit:  f.HasExit(),
			Stairs:   len(f.Stairs()),
		}
		for _, c := range f.Classrooms() {
			info.Classrooms = append(info.Classrooms, ClassroomInfo{
				ID:       c.ID,
				Label:    s.labels.Label(ctx, f.Name(), c.ID),
				Position: toPoint(c.Position),
			})
		}
		out.Floors = append(out.Floors, info)
	}
	return connect.NewResponse(out), nil
}

// 楼层数量，用于健康检查
func (s *RouteServer) FloorCount() int {
	return len(s.current().Floors())
}

func (s *RouteServer) Suspended() bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return !s.ok
}

// 替换园区数据，进行中的请求继续使用旧数据
func (s *RouteServer) Reload(r *router.Router) {
	s.mu.Lock()
	old := s.router
	s.router = r
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
	log.Infof("campus reloaded: %d floors", len(r.Floors()))
}

// 暂停导航服务
func (s *RouteServer) Suspend() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = false
}

// 恢复导航服务
func (s *RouteServer) Resume() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = true
	s.cond.Broadcast()
}

// 关闭导航服务
func (s *RouteServer) Close() {
	s.current().Close()
}
