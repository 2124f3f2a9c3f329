package algo

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

type node[T any] struct {
	p    geometry.Point
	attr T
}

// 无权图，只按跳数搜索
// 构建完成后只读，可以被多个goroutine同时搜索
type SearchGraph[NT any] struct {
	// 邻接表，保持邻居的插入顺序，保证搜索结果确定
	edges [][]int
	// 点的位置
	nodes []node[NT]
}

func NewSearchGraph[NT any]() *SearchGraph[NT] {
	return &SearchGraph[NT]{
		edges: make([][]int, 0),
		nodes: make([]node[NT], 0),
	}
}

func (g *SearchGraph[NT]) InitNode(p geometry.Point, attr NT) int {
	g.nodes = append(g.nodes, node[NT]{p: p, attr: attr})
	g.edges = append(g.edges, make([]int, 0))
	return len(g.nodes) - 1
}

// 添加from->to的有向边，重复的边被忽略
func (g *SearchGraph[NT]) InitEdge(from, to int) error {
	if from < 0 || from >= len(g.nodes) {
		return fmt.Errorf("%w: from %d (size %d)", ErrNodeNotFound, from, len(g.nodes))
	}
	if to < 0 || to >= len(g.nodes) {
		return fmt.Errorf("%w: to %d (size %d)", ErrNodeNotFound, to, len(g.nodes))
	}
	if lo.Contains(g.edges[from], to) {
		return nil
	}
	g.edges[from] = append(g.edges[from], to)
	return nil
}

func (g *SearchGraph[NT]) Len() int {
	return len(g.nodes)
}

func (g *SearchGraph[NT]) Position(id int) geometry.Point {
	return g.nodes[id].p
}

func (g *SearchGraph[NT]) Neighbors(id int) []int {
	return g.edges[id]
}

// 距离p最近的结点
func (g *SearchGraph[NT]) ClosestNode(p geometry.Point) int {
	return ClosestPointIndex(g.Positions(), p)
}

func (g *SearchGraph[NT]) Positions() []geometry.Point {
	return lo.Map(g.nodes, func(n node[NT], _ int) geometry.Point {
		return n.p
	})
}

type PathItem[NT any] struct {
	NodeID   int
	NodeAttr NT
	Position geometry.Point
}

func (g *SearchGraph[NT]) reconstructPath(cameFrom map[int]int, curNode int) []PathItem[NT] {
	pathBeforeReversed := []PathItem[NT]{g.item(curNode)}
	for {
		if from, ok := cameFrom[curNode]; ok {
			curNode = from
			pathBeforeReversed = append(pathBeforeReversed, g.item(curNode))
		} else {
			break
		}
	}
	return lo.Reverse(pathBeforeReversed)
}

func (g *SearchGraph[NT]) item(id int) PathItem[NT] {
	return PathItem[NT]{NodeID: id, NodeAttr: g.nodes[id].attr, Position: g.nodes[id].p}
}

func (g *SearchGraph[NT]) ShortestPath(start, end int) []PathItem[NT] {
	return g.ShortestPathBFS(start, end)
}

// 广度优先搜索，返回第一条到达终点的路径（跳数最少）
// 邻居按插入顺序展开，结果只取决于图的结构
func (g *SearchGraph[NT]) ShortestPathBFS(start, end int) []PathItem[NT] {
	if start < 0 || start >= len(g.nodes) || end < 0 || end >= len(g.nodes) {
		return nil
	}
	if start == end {
		return []PathItem[NT]{g.item(start)}
	}
	queue := []int{start}
	visited := make([]bool, len(g.nodes))
	visited[start] = true
	cameFrom := make(map[int]int)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, neighbor := range g.edges[cur] {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			cameFrom[neighbor] = cur
			if neighbor == end {
				return g.reconstructPath(cameFrom, neighbor)
			}
			queue = append(queue, neighbor)
		}
	}
	return nil
}
