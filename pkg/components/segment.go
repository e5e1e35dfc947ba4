package components

// Track 轨道段中的一条轨道
type Track struct {
	Index     int          // 轨道索引（从 0 开始）
	SegmentID int          // 所属轨道段
	X         float64      // 横向世界坐标
	Handle    *SceneObject // 渲染句柄
}

// Segment 轨道生成的基本单元
//
// EndZ - StartZ 恒等于配置中的 SegmentLength。
// 开局的若干段只有一条轨道，之后固定为多轨。
type Segment struct {
	ID          int
	StartZ      float64
	EndZ        float64
	TrackCount  int
	Tracks      []Track // 长度等于 TrackCount
	IsVisible   bool
	IsGenerated bool
}

// IsMultiTrack 判断是否为多轨段
func (s *Segment) IsMultiTrack() bool {
	return s.TrackCount > 1
}
