// 教室显示名称，查询失败时返回默认名称（如"Primary GF: Class 12"）
package labels

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "labels")

// 查询教室的显示名称
type Lookup interface {
	Label(ctx context.Context, floor string, classroom int) string
}

// 默认名称
func Fallback(floor string, classroom int) string {
	return fmt.Sprintf("%s: Class %d", floor, classroom)
}

type key struct {
	floor     string
	classroom int
}

// 内存中的名称表
type Static struct {
	names *xsync.MapOf[key, string]
}

func NewStatic(names map[string]map[int]string) *Static {
	s := &Static{names: xsync.NewMapOf[key, string]()}
	for floor, rooms := range names {
		for id, name := range rooms {
			s.Set(floor, id, name)
		}
	}
	return s
}

func (s *Static) Set(floor string, classroom int, name string) {
	s.names.Store(key{floor, classroom}, name)
}

func (s *Static) Label(_ context.Context, floor string, classroom int) string {
	if name, ok := s.names.Load(key{floor, classroom}); ok && name != "" {
		return name
	}
	return Fallback(floor, classroom)
}
