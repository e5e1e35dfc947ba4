package components

import "github.com/golang/geo/r3"

// PositionComponent 存储实体的世界坐标
// X 为横向（轨道方向），Z 为前进方向，Y 仅用于表现
type PositionComponent struct {
	Pos r3.Vector
}
