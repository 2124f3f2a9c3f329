package main

import (
	"fmt"
	"strings"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router"
	"github.com/samber/lo"
)

// campusnav.v1.RouteService 的请求与响应

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// 端点的接口表示，kind取值 classroom | stair | nearest_stair | exit
// classroom为房间号，stair为楼梯编号，exit为方向（1离开，2进入）
type Endpoint struct {
	Kind  string `json:"kind"`
	Index int    `json:"index,omitempty"`
}

type Route struct {
	Kind       string  `json:"kind"`
	Polyline   []Point `json:"polyline"`
	Waypoints  []int   `json:"waypoints,omitempty"`
	Length     float64 `json:"length"`
	DurationMs int64   `json:"duration_ms"`
	Fallback   bool    `json:"fallback,omitempty"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

type Segment struct {
	Floor string   `json:"floor"`
	Start Endpoint `json:"start"`
	End   Endpoint `json:"end"`
	Route Route    `json:"route"`
}

type GetTripRequest struct {
	From router.Selection `json:"from"`
	To   router.Selection `json:"to"`
	// 无法搜索时报错而不是返回直线
	Strict bool `json:"strict,omitempty"`
}

type GetTripResponse struct {
	TripID    string    `json:"trip_id"`
	Scenario  string    `json:"scenario"`
	FromLabel string    `json:"from_label"`
	ToLabel   string    `json:"to_label"`
	Segments  []Segment `json:"segments"`
	Length    float64   `json:"length"`
}

type GetRouteRequest struct {
	Floor  string   `json:"floor"`
	Start  Endpoint `json:"start"`
	End    Endpoint `json:"end"`
	Strict bool     `json:"strict,omitempty"`
}

type GetRouteResponse struct {
	Route Route `json:"route"`
}

type ListFloorsRequest struct {
	Building string `json:"building,omitempty"`
}

type ClassroomInfo struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Position Point  `json:"position"`
}

type FloorInfo struct {
	Name       string          `json:"name"`
	Building   string          `json:"building"`
	Level      int             `json:"level"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	HasExit    bool            `json:"has_exit"`
	Stairs     int             `json:"stairs"`
	Classrooms []ClassroomInfo `json:"classrooms"`
}

type ListFloorsResponse struct {
	Floors []FloorInfo `json:"floors"`
}

// 转换

func toPoint(p geometry.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

func parseEndpoint(ep Endpoint) (router.Endpoint, error) {
	switch strings.ToLower(ep.Kind) {
	case "classroom":
		return router.ClassroomEndpoint(ep.Index), nil
	case "stair":
		return router.StairEndpoint(ep.Index), nil
	case "nearest_stair":
		return router.NearestStairEndpoint(), nil
	case "exit":
		return router.ExitEndpoint(ep.Index), nil
	default:
		return router.Endpoint{}, fmt.Errorf("unknown endpoint kind: %q", ep.Kind)
	}
}

func formatEndpoint(ep router.Endpoint) Endpoint {
	switch ep.Kind {
	case router.EndpointClassroom:
		return Endpoint{Kind: "classroom", Index: ep.Index}
	case router.EndpointStair:
		return Endpoint{Kind: "stair", Index: ep.Index}
	case router.EndpointNearestStair:
		return Endpoint{Kind: "nearest_stair"}
	case router.EndpointExit:
		return Endpoint{Kind: "exit", Index: ep.Index}
	default:
		return Endpoint{Kind: "unknown"}
	}
}

func formatRoute(r *router.Route) Route {
	return Route{
		Kind: r.Kind.String(),
		Polyline: lo.Map(r.Polyline, func(p geometry.Point, _ int) Point {
			return toPoint(p)
		}),
		Waypoints:  r.Waypoints,
		Length:     r.Length,
		DurationMs: r.Duration(*drawSpeed).Milliseconds(),
		Fallback:   r.Fallback,
		Degenerate: r.Degenerate,
	}
}
