package router_test

import (
	"testing"

	"git.fiblab.net/sim/campusnav/router"
	"github.com/stretchr/testify/require"
)

// 4个waypoint围成的方形道路网
//
//	(0,10) 4 ──── 3 (10,10)
//	       │      │
//	 (0,0) 1 ──── 2 (10,0)
//
// 走廊1在下边，走廊2在右边，走廊3在上边；出口在左上角
func squareFloor(name, building string, level int, withExit bool) router.FloorData {
	data := router.FloorData{
		Name:     name,
		Building: building,
		Level:    level,
		Width:    20,
		Height:   20,
		Points: [][2]float64{
			{1, 1},   // 1
			{9, -1},  // 2
			{11, 5},  // 3
			{1, 11},  // 4
			{12, 12}, // 5，没有走廊
		},
		Waypoints: [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Connections: map[int][]int{
			1: {2, 4},
			2: {1, 3},
			3: {2, 4},
			4: {3, 1},
		},
		Corridors: []router.CorridorData{
			{ID: 1, Coords: [4]float64{0, -2, 10, 2}, Rooms: []int{1, 2}, Stairs: [][2]float64{{1, 0}}},
			{ID: 2, Coords: [4]float64{8, 0, 12, 10}, Rooms: []int{3}},
			{ID: 3, Coords: [4]float64{-2, 8, 10, 12}, Rooms: []int{4}, Stairs: [][2]float64{{9, 10}}},
		},
	}
	if withExit {
		data.Exit = [][2]float64{{-1, 10}, {-5, 10}}
	}
	return data
}

func testCampus() []router.FloorData {
	return []router.FloorData{
		squareFloor("Primary GF", "Primary", 0, true),
		squareFloor("Primary FF", "Primary", 1, false),
		squareFloor("Senior GF", "Senior", 0, true),
		squareFloor("Senior FF", "Senior", 1, false),
	}
}

func newTestRouter(t *testing.T) *router.Router {
	r, err := router.New(testCampus())
	require.NoError(t, err)
	return r
}

func newTestFloor(t *testing.T) *router.Floor {
	data := squareFloor("Primary GF", "Primary", 0, true)
	f, err := router.NewFloor(&data)
	require.NoError(t, err)
	return f
}
