package router_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFloor(t *testing.T) {
	f := newTestFloor(t)
	assert.Equal(t, "Primary GF", f.Name())
	assert.Equal(t, "Primary", f.Building())
	assert.Equal(t, 0, f.Level())
	assert.True(t, f.HasExit())
	assert.Len(t, f.Waypoints(), 4)

	classrooms := f.Classrooms()
	require.Len(t, classrooms, 4)
	for i, c := range classrooms {
		assert.Equal(t, i+1, c.ID)
	}
	assert.False(t, f.HasClassroom(5))

	stairs := f.Stairs()
	require.Len(t, stairs, 2)
	assert.Equal(t, 0, stairs[0].Index)
	assert.Equal(t, 1, stairs[0].CorridorID)
	assert.Equal(t, 1, stairs[1].Index)
	assert.Equal(t, 3, stairs[1].CorridorID)

	c, ok := f.Corridor(3)
	require.True(t, ok)
	assert.Equal(t, []int{1}, c.Stairs)
	assert.Equal(t, geometry.Point{X: 4, Y: 10}, c.Center())
}

func TestNewFloorFloorLevelStairs(t *testing.T) {
	data := squareFloor("F", "B", 0, false)
	for i := range data.Corridors {
		data.Corridors[i].Stairs = nil
	}
	data.Stairs = [][2]float64{{5, 5}, {6, 6}}
	f, err := router.NewFloor(&data)
	require.NoError(t, err)
	require.Len(t, f.Stairs(), 2)
	assert.Equal(t, 0, f.Stairs()[1].CorridorID)
}

func TestNewFloorValidation(t *testing.T) {
	cases := map[string]func(d *router.FloorData){
		"empty name":         func(d *router.FloorData) { d.Name = "" },
		"no waypoints":       func(d *router.FloorData) { d.Waypoints = nil },
		"room out of range":  func(d *router.FloorData) { d.Corridors[0].Rooms = append(d.Corridors[0].Rooms, 6) },
		"room zero":          func(d *router.FloorData) { d.Corridors[1].Rooms = []int{0} },
		"room in two":        func(d *router.FloorData) { d.Corridors[1].Rooms = []int{1} },
		"duplicated id":      func(d *router.FloorData) { d.Corridors[1].ID = 1 },
		"inverted corridor":  func(d *router.FloorData) { d.Corridors[0].Coords = [4]float64{10, 0, 0, 2} },
		"unknown connection": func(d *router.FloorData) { d.Connections[1] = []int{2, 9} },
		"short exit":         func(d *router.FloorData) { d.Exit = [][2]float64{{0, 0}} },
		"long exit":          func(d *router.FloorData) { d.Exit = [][2]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			data := squareFloor("F", "B", 0, true)
			mutate(&data)
			f, err := router.NewFloor(&data)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, router.ErrInvalidFloor)
		})
	}
}

func TestCorridorRoomsResolve(t *testing.T) {
	// 每条走廊引用的教室和楼梯都能解析为有效坐标
	r := newTestRouter(t)
	for _, f := range r.Floors() {
		for _, c := range f.Classrooms() {
			corridor, ok := f.Corridor(c.CorridorID)
			require.True(t, ok)
			assert.Contains(t, corridor.Rooms, c.ID)
			res, err := f.Resolve(router.ClassroomEndpoint(c.ID), nil)
			require.NoError(t, err)
			assert.Equal(t, c.Position, res.Position)
		}
		for _, s := range f.Stairs() {
			res, err := f.Resolve(router.StairEndpoint(s.Index), nil)
			require.NoError(t, err)
			assert.Equal(t, s.Position, res.Position)
		}
	}
}

func TestAdjustToCorridor(t *testing.T) {
	c := &router.Corridor{ID: 1, Box: [4]float64{0, 0, 10, 4}}
	// 在走廊内不变
	assert.Equal(t, geometry.Point{X: 5, Y: 1}, router.AdjustToCorridor(geometry.Point{X: 5, Y: 1}, c))
	// x在范围内，y移到中线
	assert.Equal(t, geometry.Point{X: 5, Y: 2}, router.AdjustToCorridor(geometry.Point{X: 5, Y: 9}, c))
	// y在范围内，x移到中线
	assert.Equal(t, geometry.Point{X: 5, Y: 3}, router.AdjustToCorridor(geometry.Point{X: 20, Y: 3}, c))
	// 都不在范围内
	assert.Equal(t, geometry.Point{X: 20, Y: 20}, router.AdjustToCorridor(geometry.Point{X: 20, Y: 20}, c))

	data := squareFloor("F", "B", 0, false)
	data.AdjustRooms = true
	f, err := router.NewFloor(&data)
	require.NoError(t, err)
	c3, ok := f.Classroom(3)
	require.True(t, ok)
	// (11,5)本来就在走廊2内
	assert.Equal(t, geometry.Point{X: 11, Y: 5}, c3.Position)
	c4, ok := f.Classroom(4)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 1, Y: 11}, c4.Position)
}
