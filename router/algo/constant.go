package algo

import (
	"errors"
)

const (
	// 出口折线的点数范围
	EXIT_MIN_POINTS = 2
	EXIT_MAX_POINTS = 3

	// 路径动画的默认绘制速度（像素/秒）
	DEFAULT_DRAW_SPEED = 100

	// 浮点比较容差
	EPSILON = 1e-9
)

var (
	// 错误：结点不存在
	ErrNodeNotFound = errors.New("node not found in search graph")
)
