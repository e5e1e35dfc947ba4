package components

// CollisionComponent 定义实体在 X/Z 平面上的碰撞包围盒
// 用于碰撞系统检测电车与行人、障碍物之间的接触
type CollisionComponent struct {
	HalfWidth float64 // 沿 X 轴（横向）的半宽
	HalfDepth float64 // 沿 Z 轴（前进方向）的半深
}

// Overlaps 判断两个以 (x, z) 为中心的包围盒是否相交
// 边缘恰好接触不算相交
func (c CollisionComponent) Overlaps(x, z float64, other CollisionComponent, ox, oz float64) bool {
	dx := x - ox
	if dx < 0 {
		dx = -dx
	}
	dz := z - oz
	if dz < 0 {
		dz = -dz
	}
	return dx < c.HalfWidth+other.HalfWidth && dz < c.HalfDepth+other.HalfDepth
}
