package router

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "router")

var (
	// 错误：楼层数据不合法，加载时立即失败
	ErrInvalidFloor = errors.New("invalid floor data")
	// 错误：教室id或楼梯编号不存在
	ErrEndpointNotFound = errors.New("endpoint not found")
	// 错误：最近楼梯缺少参考点
	ErrMissingReference = errors.New("nearest stair requires a reference point")
	// 错误：端点组合无法规划
	ErrInvalidEndpointPairing = errors.New("invalid endpoint pairing")
	// 错误：搜索失败且无法回退到走廊中心，只在严格模式下返回
	ErrDegenerateGraph = errors.New("degenerate graph: no path and no corridor fallback")
	// 错误：楼层不存在
	ErrFloorNotFound = errors.New("floor not found")
)
