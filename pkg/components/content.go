package components

import "github.com/gonewx/trolley/pkg/types"

// ContentComponent 轨道上的内容实体（行人或障碍物）
//
// 实体由内容规则系统创建和销毁，其他系统只读；
// 碰撞标记也必须通过内容规则系统修改。
type ContentComponent struct {
	Type         types.ContentType
	SegmentID    int          // 所属轨道段
	SectionIndex int          // 所属区间
	TrackIndex   int          // 所在轨道索引（从 0 开始）
	Collided     bool         // 是否已被电车撞到（每个实体只计一次）
	Handle       *SceneObject // 渲染句柄，由场景协作方持有
}
