package algo_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router/algo"
	"github.com/stretchr/testify/assert"
)

func TestPolylineLength(t *testing.T) {
	assert.Equal(t, 0.0, algo.PolylineLength(nil))
	assert.Equal(t, 0.0, algo.PolylineLength([]geometry.Point{{X: 1, Y: 1}}))
	assert.InDelta(t, 5.0, algo.PolylineLength([]geometry.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}), 1e-9)
	assert.InDelta(t, 15.0, algo.PolylineLength([]geometry.Point{
		{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 14},
	}), 1e-9)
}

func TestReverse(t *testing.T) {
	in := []geometry.Point{{X: 1}, {X: 2}, {X: 3}}
	out := algo.Reverse(in)
	assert.Equal(t, []geometry.Point{{X: 3}, {X: 2}, {X: 1}}, out)
	// 输入不变
	assert.Equal(t, []geometry.Point{{X: 1}, {X: 2}, {X: 3}}, in)
}

func TestClosestPointIndex(t *testing.T) {
	points := []geometry.Point{{X: 1, Y: 1}, {X: 100, Y: 100}, {X: -1, Y: -1}}
	assert.Equal(t, 0, algo.ClosestPointIndex(points, geometry.Point{}))
	assert.Equal(t, 1, algo.ClosestPointIndex(points, geometry.Point{X: 90, Y: 90}))
	assert.Equal(t, -1, algo.ClosestPointIndex(nil, geometry.Point{}))
	assert.Equal(t, geometry.Point{X: 50.5, Y: 50.5}, algo.Midpoint(points[0], points[1]))
	assert.True(t, algo.SamePoint(points[0], geometry.Point{X: 1, Y: 1}))
}
