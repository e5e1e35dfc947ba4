package systems

import "github.com/gonewx/trolley/pkg/components"

// SceneGraph 渲染协作方接口
//
// 生成系统只通过 Attach/Detach 通知渲染方，不关心渲染细节。
// Attach 返回的错误由调用方原样向上传递。
type SceneGraph interface {
	Attach(obj *components.SceneObject) error
	Detach(obj *components.SceneObject)
}

// NopSceneGraph 不做任何事的场景（无头运行与测试使用）
type NopSceneGraph struct{}

// Attach 实现 SceneGraph
func (NopSceneGraph) Attach(*components.SceneObject) error { return nil }

// Detach 实现 SceneGraph
func (NopSceneGraph) Detach(*components.SceneObject) {}
