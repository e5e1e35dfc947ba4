package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testLaneComponent struct {
	Track int
	Z     float64
}

type testMarkerComponent struct {
	Hit bool
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// ID从1开始
	if id1 != 1 || id2 != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", id1, id2)
	}
	if em.EntityCount() != 2 {
		t.Errorf("Expected 2 live entities, got %d", em.EntityCount())
	}
}

func TestGenericAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testLaneComponent{Track: 3, Z: 42.5})

	lane, ok := GetComponent[*testLaneComponent](em, id)
	if !ok {
		t.Fatal("Component should be found")
	}
	if lane.Track != 3 || lane.Z != 42.5 {
		t.Errorf("Component data mismatch, got track=%d z=%f", lane.Track, lane.Z)
	}

	// 泛型版本与反射版本共享同一个键
	comp, found := em.GetComponent(id, reflect.TypeOf(&testLaneComponent{}))
	if !found || comp.(*testLaneComponent) != lane {
		t.Error("Reflection lookup should return the same instance")
	}

	if _, ok := GetComponent[*testMarkerComponent](em, id); ok {
		t.Error("Missing component should not be found")
	}
}

func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testMarkerComponent{})
	AddComponent(em, id, &testLaneComponent{Track: 2})
	if _, ok := GetComponent[*testMarkerComponent](em, id); !ok {
		t.Fatal("Should have component after adding")
	}

	em.RemoveComponent(id, reflect.TypeOf(&testMarkerComponent{}))
	if _, ok := GetComponent[*testMarkerComponent](em, id); ok {
		t.Error("Should not have component after removal")
	}

	// 泛型版本，其余组件不受影响
	RemoveComponent[*testLaneComponent](em, id)
	if _, ok := GetComponent[*testLaneComponent](em, id); ok {
		t.Error("Should not have lane component after removal")
	}
	if !em.Exists(id) {
		t.Error("Removing components should not destroy the entity")
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testLaneComponent{})

	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.Exists(id) {
		t.Error("Entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.EntityCount() != 0 {
		t.Errorf("Expected no live entities, got %d", em.EntityCount())
	}
}

func TestGetEntitiesWithSortedByID(t *testing.T) {
	em := NewEntityManager()

	ids := make([]EntityID, 0)
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testLaneComponent{Track: i % 5})
		if i%2 == 0 {
			AddComponent(em, id, &testMarkerComponent{})
			ids = append(ids, id)
		}
	}

	both := em.GetEntitiesWith(reflect.TypeOf(&testLaneComponent{}), reflect.TypeOf(&testMarkerComponent{}))
	if len(both) != len(ids) {
		t.Fatalf("Expected %d entities, got %d", len(ids), len(both))
	}
	for i := range both {
		if both[i] != ids[i] {
			t.Errorf("Index %d: expected %d, got %d", i, ids[i], both[i])
		}
	}

	all := GetEntitiesWith1[*testLaneComponent](em)
	if len(all) != 20 {
		t.Errorf("Expected 20 entities, got %d", len(all))
	}
}
