package router

import (
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

// getter

func (f *Floor) Name() string     { return f.name }
func (f *Floor) Building() string { return f.building }
func (f *Floor) Level() int       { return f.level }

// 平面图尺寸
func (f *Floor) Size() (int, int) { return f.width, f.height }

func (f *Floor) HasExit() bool {
	return len(f.exit) > 0
}

func (f *Floor) HasClassroom(id int) bool {
	_, ok := f.classrooms[id]
	return ok
}

func (f *Floor) Classroom(id int) (*Classroom, bool) {
	c, ok := f.classrooms[id]
	return c, ok
}

// 按id排序的教室列表
func (f *Floor) Classrooms() []*Classroom {
	classrooms := lo.Values(f.classrooms)
	sort.Slice(classrooms, func(i, j int) bool {
		return classrooms[i].ID < classrooms[j].ID
	})
	return classrooms
}

func (f *Floor) Corridor(id int) (*Corridor, bool) {
	c, ok := f.corridors[id]
	return c, ok
}

func (f *Floor) Stairs() []*StairPoint {
	return f.stairs
}

func (f *Floor) StairPositions() []geometry.Point {
	return lo.Map(f.stairs, func(s *StairPoint, _ int) geometry.Point {
		return s.Position
	})
}

func (f *Floor) Waypoints() []geometry.Point {
	return f.graph.Positions()
}
