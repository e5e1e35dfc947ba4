package systems

import (
	"errors"
	"log"
	"sort"

	"github.com/gonewx/trolley/pkg/components"
)

// ErrDuplicateAttach 同一个对象被重复挂载
var ErrDuplicateAttach = errors.New("scene object already attached")

// ErrNilSceneObject 挂载了 nil 对象
var ErrNilSceneObject = errors.New("nil scene object")

// SceneRegistry 记录当前挂载对象的场景，供前端按 Z 范围取出绘制
//
// ebiten 和终端前端共用它，本身不依赖任何绘制库。
type SceneRegistry struct {
	objects map[*components.SceneObject]struct{}
}

// NewSceneRegistry 创建空的场景登记表
func NewSceneRegistry() *SceneRegistry {
	return &SceneRegistry{objects: make(map[*components.SceneObject]struct{})}
}

// Attach 实现 SceneGraph
func (r *SceneRegistry) Attach(obj *components.SceneObject) error {
	if obj == nil {
		return ErrNilSceneObject
	}
	if _, ok := r.objects[obj]; ok {
		return ErrDuplicateAttach
	}
	r.objects[obj] = struct{}{}
	return nil
}

// Detach 实现 SceneGraph，未挂载的对象只记录警告
func (r *SceneRegistry) Detach(obj *components.SceneObject) {
	if _, ok := r.objects[obj]; !ok {
		log.Printf("[SceneRegistry] WARNING: detach of unknown object %+v", obj)
		return
	}
	delete(r.objects, obj)
}

// Len 返回挂载中的对象数量
func (r *SceneRegistry) Len() int {
	return len(r.objects)
}

// Clear 清空登记表（重新开局时由会话自行 Detach，这里用于前端切换）
func (r *SceneRegistry) Clear() {
	r.objects = make(map[*components.SceneObject]struct{})
}

// Visible 返回与 [minZ, maxZ] 相交的对象
//
// 轨道排在内容之前，同类按 Z 再按轨道索引排序，保证绘制顺序稳定。
func (r *SceneRegistry) Visible(minZ, maxZ float64) []*components.SceneObject {
	result := make([]*components.SceneObject, 0, len(r.objects))
	for obj := range r.objects {
		startZ := obj.Position.Z
		endZ := startZ + obj.Length
		if endZ < minZ || startZ > maxZ {
			continue
		}
		result = append(result, obj)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Position.Z != b.Position.Z {
			return a.Position.Z < b.Position.Z
		}
		return a.TrackIndex < b.TrackIndex
	})
	return result
}
