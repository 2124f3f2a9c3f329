package main

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// 手写的connect服务描述，对应生成代码中的 *connect 包

const (
	RouteServiceName = "campusnav.v1.RouteService"

	RouteServiceGetTripProcedure    = "/campusnav.v1.RouteService/GetTrip"
	RouteServiceGetRouteProcedure   = "/campusnav.v1.RouteService/GetRoute"
	RouteServiceListFloorsProcedure = "/campusnav.v1.RouteService/ListFloors"
)

type RouteServiceHandler interface {
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	GetRoute(context.Context, *connect.Request[GetRouteRequest]) (*connect.Response[GetRouteResponse], error)
	ListFloors(context.Context, *connect.Request[ListFloorsRequest]) (*connect.Response[ListFloorsResponse], error)
}

func NewRouteServiceHandler(svc RouteServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(RouteServiceGetTripProcedure, connect.NewUnaryHandler(
		RouteServiceGetTripProcedure, svc.GetTrip, opts...,
	))
	mux.Handle(RouteServiceGetRouteProcedure, connect.NewUnaryHandler(
		RouteServiceGetRouteProcedure, svc.GetRoute, opts...,
	))
	mux.Handle(RouteServiceListFloorsProcedure, connect.NewUnaryHandler(
		RouteServiceListFloorsProcedure, svc.ListFloors, opts...,
	))
	return "/" + RouteServiceName + "/", mux
}

type RouteServiceClient struct {
	getTrip    *connect.Client[GetTripRequest, GetTripResponse]
	getRoute   *connect.Client[GetRouteRequest, GetRouteResponse]
	listFloors *connect.Client[ListFloorsRequest, ListFloorsResponse]
}

func NewRouteServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RouteServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &RouteServiceClient{
		getTrip:    connect.NewClient[GetTripRequest, GetTripResponse](httpClient, baseURL+RouteServiceGetTripProcedure, opts...),
		getRoute:   connect.NewClient[GetRouteRequest, GetRouteResponse](httpClient, baseURL+RouteServiceGetRouteProcedure, opts...),
		listFloors: connect.NewClient[ListFloorsRequest, ListFloorsResponse](httpClient, baseURL+RouteServiceListFloorsProcedure, opts...),
	}
}

func (c *RouteServiceClient) GetTrip(ctx context.Context, req *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *RouteServiceClient) GetRoute(ctx context.Context, req *connect.Request[GetRouteRequest]) (*connect.Response[GetRouteResponse], error) {
	return c.getRoute.CallUnary(ctx, req)
}

func (c *RouteServiceClient) ListFloors(ctx context.Context, req *connect.Request[ListFloorsRequest]) (*connect.Response[ListFloorsResponse], error) {
	return c.listFloors.CallUnary(ctx, req)
}
