package components

import (
	"github.com/golang/geo/r3"
	"github.com/gonewx/trolley/pkg/types"
)

// SceneObjectKind 场景对象种类
type SceneObjectKind int

const (
	SceneObjectTrack SceneObjectKind = iota
	SceneObjectContent
)

// SceneObject 交给渲染协作方挂载的不透明对象
//
// 核心逻辑不关心渲染细节，只通过 Attach/Detach 传递该对象；
// 渲染方可以按指针身份识别同一个对象。
type SceneObject struct {
	Kind        SceneObjectKind
	ID          uint64 // 内容实体 ID（轨道对象为 0）
	SegmentID   int
	TrackIndex  int
	ContentType types.ContentType
	Position    r3.Vector // 轨道对象为轨道起点
	Length      float64   // 轨道对象沿 Z 的长度
}
