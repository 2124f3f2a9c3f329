package router

import (
	"fmt"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router/algo"
	"github.com/samber/lo"
)

func toPoint(p [2]float64) geometry.Point {
	return geometry.Point{X: p[0], Y: p[1]}
}

func invalidf(name string, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidFloor, name, fmt.Sprintf(format, args...))
}

// 将楼层数据转换为搜索图与查询表，数据不合法时返回错误，不会得到部分构建的楼层
func NewFloor(data *FloorData) (*Floor, error) {
	name := data.Name
	if name == "" {
		return nil, fmt.Errorf("%w: empty floor name", ErrInvalidFloor)
	}
	if len(data.Waypoints) == 0 {
		return nil, invalidf(name, "no waypoints")
	}
	f := &Floor{
		name:       name,
		building:   data.Building,
		level:      data.Level,
		width:      data.Width,
		height:     data.Height,
		corridors:  make(map[int]*Corridor, len(data.Corridors)),
		classrooms: make(map[int]*Classroom),
		stairs:     make([]*StairPoint, 0),
	}

	// 道路网，waypoint按输入顺序编号
	graph := algo.NewSearchGraph[WaypointAttr]()
	for i, p := range data.Waypoints {
		graph.InitNode(toPoint(p), WaypointAttr{Index: i})
	}
	// map的遍历顺序不确定，按编号排序后再加边
	froms := lo.Keys(data.Connections)
	sort.Ints(froms)
	for _, from := range froms {
		for _, to := range data.Connections[from] {
			if err := graph.InitEdge(from-1, to-1); err != nil {
				return nil, invalidf(name, "connection %d -> %d: %v", from, to, err)
			}
		}
	}
	f.graph = graph

	// 走廊、教室与楼梯
	for _, c := range data.Corridors {
		if _, ok := f.corridors[c.ID]; ok {
			return nil, invalidf(name, "duplicated corridor id %d", c.ID)
		}
		if c.Coords[0] > c.Coords[2] || c.Coords[1] > c.Coords[3] {
			return nil, invalidf(name, "corridor %d has inverted bounds %v", c.ID, c.Coords)
		}
		corridor := &Corridor{ID: c.ID, Box: c.Coords, Rooms: c.Rooms}
		for _, room := range c.Rooms {
			if room < 1 || room > len(data.Points) {
				return nil, invalidf(name, "corridor %d references room %d out of point table (size %d)",
					c.ID, room, len(data.Points))
			}
			if other, ok := f.classrooms[room]; ok {
				return nil, invalidf(name, "room %d belongs to corridors %d and %d",
					room, other.CorridorID, c.ID)
			}
			p := toPoint(data.Points[room-1])
			if data.AdjustRooms {
				p = AdjustToCorridor(p, corridor)
			}
			f.classrooms[room] = &Classroom{ID: room, Position: p, CorridorID: c.ID}
		}
		for _, s := range c.Stairs {
			corridor.Stairs = append(corridor.Stairs, len(f.stairs))
			f.stairs = append(f.stairs, &StairPoint{
				Index:      len(f.stairs),
				Position:   toPoint(s),
				CorridorID: c.ID,
			})
		}
		f.corridors[c.ID] = corridor
	}
	if len(f.stairs) == 0 {
		for _, s := range data.Stairs {
			f.stairs = append(f.stairs, &StairPoint{
				Index:    len(f.stairs),
				Position: toPoint(s),
			})
		}
	}

	// 出口
	if len(data.Exit) > 0 {
		if len(data.Exit) < algo.EXIT_MIN_POINTS || len(data.Exit) > algo.EXIT_MAX_POINTS {
			return nil, invalidf(name, "exit must have %d-%d points, got %d",
				algo.EXIT_MIN_POINTS, algo.EXIT_MAX_POINTS, len(data.Exit))
		}
		f.exit = lo.Map(data.Exit, func(p [2]float64, _ int) geometry.Point {
			return toPoint(p)
		})
	}

	log.Debugf("floor %s loaded: %d waypoints, %d corridors, %d classrooms, %d stairs",
		name, graph.Len(), len(f.corridors), len(f.classrooms), len(f.stairs))
	return f, nil
}

// 走廊外的教室投影到走廊中线上
// 教室在走廊x范围内时y取中线，在y范围内时x取中线，都不在时保持原样
func AdjustToCorridor(p geometry.Point, c *Corridor) geometry.Point {
	if c.Contains(p) {
		return p
	}
	center := c.Center()
	adjusted := p
	if p.X >= c.Box[0] && p.X <= c.Box[2] {
		adjusted.Y = center.Y
	}
	if p.Y >= c.Box[1] && p.Y <= c.Box[3] {
		adjusted.X = center.X
	}
	return adjusted
}
