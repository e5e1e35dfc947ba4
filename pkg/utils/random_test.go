package utils

import "testing"

func TestRandomSourceSeeded(t *testing.T) {
	a := NewRandomSource(42)
	b := NewRandomSource(42)
	for i := 0; i < 100; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("相同种子应产生相同序列")
		}
	}
}

func TestRandomRanges(t *testing.T) {
	rng := NewRandomSource(7)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := RandomIntRange(rng, 1, 5)
		if v < 1 || v > 5 {
			t.Fatalf("RandomIntRange 越界: %d", v)
		}
		seen[v] = true

		f := RandomRange(rng, 7.5, 20)
		if f < 7.5 || f > 20 {
			t.Fatalf("RandomRange 越界: %f", f)
		}
	}
	if len(seen) != 5 {
		t.Errorf("期望覆盖 1..5 全部取值，实际 %v", seen)
	}

	// 退化区间
	if RandomIntRange(rng, 3, 3) != 3 || RandomRange(rng, 2, 1) != 2 {
		t.Error("退化区间应返回下限")
	}
}
