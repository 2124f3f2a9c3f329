package router

import (
	"fmt"
	"time"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/campusnav/router/algo"
)

// 楼层的输入数据，来自yaml文件或mongo
// 房间号与waypoint编号都从1开始，与平面图标注一致
type FloorData struct {
	Name     string `yaml:"name" bson:"name" json:"name"`
	Building string `yaml:"building" bson:"building" json:"building"`
	// 0为地面层，只有带出口的楼层才能跨楼
	Level  int `yaml:"level" bson:"level" json:"level"`
	Width  int `yaml:"width" bson:"width" json:"width"`
	Height int `yaml:"height" bson:"height" json:"height"`

	// 房间坐标表，下标为房间号-1
	Points [][2]float64 `yaml:"points" bson:"points" json:"points"`
	// 是否将走廊外的教室坐标投影到走廊中线上
	AdjustRooms bool `yaml:"adjust_rooms" bson:"adjust_rooms" json:"adjust_rooms"`

	Waypoints   [][2]float64  `yaml:"waypoints" bson:"waypoints" json:"waypoints"`
	Connections map[int][]int `yaml:"connections" bson:"connections" json:"connections"`

	Corridors []CorridorData `yaml:"corridors" bson:"corridors" json:"corridors"`
	// 没有走廊声明楼梯时使用，走廊id为0
	Stairs [][2]float64 `yaml:"stairs" bson:"stairs" json:"stairs"`
	Exit   [][2]float64 `yaml:"exit" bson:"exit" json:"exit"`
}

type CorridorData struct {
	ID int `yaml:"id" bson:"id" json:"id"`
	// 包围盒 [x1, y1, x2, y2]
	Coords [4]float64   `yaml:"coords" bson:"coords" json:"coords"`
	Rooms  []int        `yaml:"rooms" bson:"rooms" json:"rooms"`
	Stairs [][2]float64 `yaml:"stairs" bson:"stairs" json:"stairs"`
}

type CampusData struct {
	Floors []FloorData `yaml:"floors" json:"floors"`
}

// 道路网中的拐点
type WaypointAttr struct {
	Index int
}

type Corridor struct {
	ID     int
	Box    [4]float64
	Rooms  []int
	Stairs []int // 在楼层楼梯列表中的下标
}

// 走廊包围盒中心
func (c *Corridor) Center() geometry.Point {
	return geometry.Point{
		X: (c.Box[0] + c.Box[2]) / 2,
		Y: (c.Box[1] + c.Box[3]) / 2,
	}
}

func (c *Corridor) Contains(p geometry.Point) bool {
	return p.X >= c.Box[0] && p.X <= c.Box[2] && p.Y >= c.Box[1] && p.Y <= c.Box[3]
}

type Classroom struct {
	ID         int
	Position   geometry.Point
	CorridorID int
}

type StairPoint struct {
	Index      int
	Position   geometry.Point
	CorridorID int
}

type Floor struct {
	name     string
	building string
	level    int
	width    int
	height   int

	graph      *algo.SearchGraph[WaypointAttr]
	corridors  map[int]*Corridor
	classrooms map[int]*Classroom
	// 有序，下标即楼梯编号
	stairs []*StairPoint
	exit   []geometry.Point
}

// 一次路径规划的端点类型
type EndpointKind int

const (
	EndpointClassroom EndpointKind = iota + 1
	EndpointStair
	EndpointNearestStair
	EndpointExit
)

func (k EndpointKind) String() string {
	switch k {
	case EndpointClassroom:
		return "classroom"
	case EndpointStair:
		return "stair"
	case EndpointNearestStair:
		return "nearest stair"
	case EndpointExit:
		return "exit"
	default:
		return "unknown"
	}
}

// 出口方向
const (
	// 正向：沿出口折线离开
	EXIT_FORWARD = 1
	// 反向：沿出口折线进入
	EXIT_BACKWARD = 2
)

type Endpoint struct {
	Kind EndpointKind
	// classroom id / stair index / exit variant
	Index int
}

func ClassroomEndpoint(id int) Endpoint { return Endpoint{Kind: EndpointClassroom, Index: id} }
func StairEndpoint(i int) Endpoint      { return Endpoint{Kind: EndpointStair, Index: i} }
func NearestStairEndpoint() Endpoint    { return Endpoint{Kind: EndpointNearestStair} }
func ExitEndpoint(variant int) Endpoint { return Endpoint{Kind: EndpointExit, Index: variant} }

func (e Endpoint) String() string {
	if e.Kind == EndpointNearestStair {
		return e.Kind.String()
	}
	return fmt.Sprintf("%v(%d)", e.Kind, e.Index)
}

// 解析后的端点，只在一次规划中有效
type Resolved struct {
	Kind     EndpointKind
	Position geometry.Point
	// 出口没有走廊
	HasCorridor bool
	CorridorID  int
	// 楼梯端点的楼梯编号，其他类型为-1
	StairIndex int
	// 出口折线，已按方向排好
	Polyline []geometry.Point
}

func (r Resolved) IsPolyline() bool {
	return r.Kind == EndpointExit
}

// 路径与其他端点相接的点：作为起点时取出口折线的末端，作为终点时取始端
func (r Resolved) ConnectionPoint(isStart bool) geometry.Point {
	if !r.IsPolyline() {
		return r.Position
	}
	if isStart {
		return r.Polyline[len(r.Polyline)-1]
	}
	return r.Polyline[0]
}

type RouteKind int

const (
	RouteDirect RouteKind = iota + 1
	RouteRouted
)

func (k RouteKind) String() string {
	switch k {
	case RouteDirect:
		return "direct"
	case RouteRouted:
		return "routed"
	default:
		return "unknown"
	}
}

// 单层楼内的路径
type Route struct {
	Kind  RouteKind
	Start Resolved
	End   Resolved
	// 途经的waypoint编号（从0开始）
	Waypoints []int
	// 完整折线，楼层原始坐标
	Polyline []geometry.Point
	Length   float64
	// 搜索只得到一个点时使用了走廊中心的拐点
	Fallback bool
	// 无法搜索也无法回退，退化为直线
	Degenerate bool
}

// 按恒定速度绘制折线所需时间
func (r *Route) Duration(pixelsPerSecond float64) time.Duration {
	if pixelsPerSecond <= 0 {
		pixelsPerSecond = algo.DEFAULT_DRAW_SPEED
	}
	return time.Duration(r.Length / pixelsPerSecond * float64(time.Second))
}
