package router_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveClassroom(t *testing.T) {
	f := newTestFloor(t)

	first, err := f.Resolve(router.ClassroomEndpoint(3), nil)
	require.NoError(t, err)
	assert.Equal(t, router.EndpointClassroom, first.Kind)
	assert.Equal(t, geometry.Point{X: 11, Y: 5}, first.Position)
	assert.True(t, first.HasCorridor)
	assert.Equal(t, 2, first.CorridorID)
	assert.Equal(t, -1, first.StairIndex)

	// 重复解析结果一致
	second, err := f.Resolve(router.ClassroomEndpoint(3), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = f.Resolve(router.ClassroomEndpoint(5), nil)
	assert.ErrorIs(t, err, router.ErrEndpointNotFound)
	_, err = f.Resolve(router.ClassroomEndpoint(42), nil)
	assert.ErrorIs(t, err, router.ErrEndpointNotFound)
}

func TestResolveStair(t *testing.T) {
	f := newTestFloor(t)

	res, err := f.Resolve(router.StairEndpoint(1), nil)
	require.NoError(t, err)
	assert.Equal(t, router.EndpointStair, res.Kind)
	assert.Equal(t, geometry.Point{X: 9, Y: 10}, res.Position)
	assert.Equal(t, 3, res.CorridorID)
	assert.Equal(t, 1, res.StairIndex)

	_, err = f.Resolve(router.StairEndpoint(2), nil)
	assert.ErrorIs(t, err, router.ErrEndpointNotFound)
	_, err = f.Resolve(router.StairEndpoint(-1), nil)
	assert.ErrorIs(t, err, router.ErrEndpointNotFound)
}

func TestResolveNearestStair(t *testing.T) {
	data := squareFloor("F", "B", 0, false)
	for i := range data.Corridors {
		data.Corridors[i].Stairs = nil
	}
	data.Stairs = [][2]float64{{1, 1}, {100, 100}}
	f, err := router.NewFloor(&data)
	require.NoError(t, err)

	_, err = f.Resolve(router.NearestStairEndpoint(), nil)
	assert.ErrorIs(t, err, router.ErrMissingReference)

	ref := geometry.Point{X: 0, Y: 0}
	res, err := f.Resolve(router.NearestStairEndpoint(), &ref)
	require.NoError(t, err)
	assert.Equal(t, 0, res.StairIndex)
	assert.Equal(t, geometry.Point{X: 1, Y: 1}, res.Position)

	ref = geometry.Point{X: 90, Y: 90}
	res, err = f.Resolve(router.NearestStairEndpoint(), &ref)
	require.NoError(t, err)
	assert.Equal(t, 1, res.StairIndex)
}

func TestResolveNearestStairTieBreak(t *testing.T) {
	data := squareFloor("F", "B", 0, false)
	for i := range data.Corridors {
		data.Corridors[i].Stairs = nil
	}
	data.Stairs = [][2]float64{{1, 0}, {-1, 0}, {0, 1}}
	f, err := router.NewFloor(&data)
	require.NoError(t, err)

	// 三个楼梯与参考点等距，取编号最小的
	ref := geometry.Point{}
	for i := 0; i < 5; i++ {
		res, err := f.Resolve(router.NearestStairEndpoint(), &ref)
		require.NoError(t, err)
		assert.Equal(t, 0, res.StairIndex)
	}
}

func TestResolveNearestStairIgnoresCorridor(t *testing.T) {
	f := newTestFloor(t)
	// 教室3在走廊2，走廊2没有楼梯；最近的是走廊3的楼梯1
	c3, _ := f.Classroom(3)
	res, err := f.Resolve(router.NearestStairEndpoint(), &c3.Position)
	require.NoError(t, err)
	assert.Equal(t, 1, res.StairIndex)
	assert.Equal(t, 3, res.CorridorID)

	s, ok := f.NearestStair(geometry.Point{X: 2, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 0, s.Index)
}

func TestResolveExit(t *testing.T) {
	f := newTestFloor(t)

	forward, err := f.Resolve(router.ExitEndpoint(router.EXIT_FORWARD), nil)
	require.NoError(t, err)
	assert.True(t, forward.IsPolyline())
	assert.False(t, forward.HasCorridor)
	assert.Equal(t, []geometry.Point{{X: -1, Y: 10}, {X: -5, Y: 10}}, forward.Polyline)

	backward, err := f.Resolve(router.ExitEndpoint(router.EXIT_BACKWARD), nil)
	require.NoError(t, err)
	require.Len(t, backward.Polyline, len(forward.Polyline))
	for i := range forward.Polyline {
		assert.Equal(t, forward.Polyline[i], backward.Polyline[len(backward.Polyline)-1-i])
	}

	// 出口作为起点时取末端，作为终点时取始端
	assert.Equal(t, geometry.Point{X: -1, Y: 10}, backward.ConnectionPoint(true))
	assert.Equal(t, geometry.Point{X: -1, Y: 10}, forward.ConnectionPoint(false))

	_, err = f.Resolve(router.ExitEndpoint(3), nil)
	assert.ErrorIs(t, err, router.ErrEndpointNotFound)

	data := squareFloor("F", "B", 1, false)
	noExit, err := router.NewFloor(&data)
	require.NoError(t, err)
	_, err = noExit.Resolve(router.ExitEndpoint(router.EXIT_FORWARD), nil)
	assert.ErrorIs(t, err, router.ErrEndpointNotFound)
}

func TestResolveUnknownKind(t *testing.T) {
	f := newTestFloor(t)
	_, err := f.Resolve(router.Endpoint{}, nil)
	assert.ErrorIs(t, err, router.ErrInvalidEndpointPairing)
}
