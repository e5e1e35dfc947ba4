package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestGenerateSegmentTrackCount(t *testing.T) {
	cfg := newTestConfig()
	gen := NewSegmentGenerator(cfg, nil)

	tests := []struct {
		name       string
		id         int
		trackCount int
	}{
		{"开局第一段", 0, 1},
		{"最后一个单轨段", 2, 1},
		{"第一个多轨段", 3, 5},
		{"后续段", 40, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, err := gen.GenerateSegment(tt.id)
			if err != nil {
				t.Fatalf("GenerateSegment(%d) error: %v", tt.id, err)
			}
			if seg.TrackCount != tt.trackCount || len(seg.Tracks) != tt.trackCount {
				t.Errorf("TrackCount = %d (tracks %d), want %d", seg.TrackCount, len(seg.Tracks), tt.trackCount)
			}
			if math.Abs(seg.EndZ-seg.StartZ-cfg.SegmentLength) > 1e-9 {
				t.Errorf("segment length = %v, want %v", seg.EndZ-seg.StartZ, cfg.SegmentLength)
			}
			if seg.StartZ != float64(tt.id)*cfg.SegmentLength {
				t.Errorf("StartZ = %v, want %v", seg.StartZ, float64(tt.id)*cfg.SegmentLength)
			}
			if !seg.IsGenerated {
				t.Error("IsGenerated should be true")
			}
		})
	}
}

// 轨道以 X=0 为中心对称分布
func TestGenerateSegmentTrackLayout(t *testing.T) {
	cfg := newTestConfig()
	gen := NewSegmentGenerator(cfg, nil)

	seg, _ := gen.GenerateSegment(5)
	want := []float64{-5, -2.5, 0, 2.5, 5}
	for i, track := range seg.Tracks {
		if track.Index != i || track.SegmentID != 5 {
			t.Errorf("track %d: index=%d segment=%d", i, track.Index, track.SegmentID)
		}
		if math.Abs(track.X-want[i]) > 1e-9 {
			t.Errorf("track %d X = %v, want %v", i, track.X, want[i])
		}
		if track.Handle == nil {
			t.Errorf("track %d has no scene handle", i)
		}
	}

	single, _ := gen.GenerateSegment(0)
	if single.Tracks[0].X != 0 {
		t.Errorf("single track X = %v, want 0", single.Tracks[0].X)
	}
}

func TestGenerateSegmentIdempotent(t *testing.T) {
	scene := newRecordingScene()
	gen := NewSegmentGenerator(newTestConfig(), scene)

	first, err := gen.GenerateSegment(7)
	if err != nil {
		t.Fatalf("GenerateSegment error: %v", err)
	}
	second, err := gen.GenerateSegment(7)
	if err != nil {
		t.Fatalf("GenerateSegment error: %v", err)
	}

	if first != second {
		t.Error("GenerateSegment should return the same instance")
	}
	if scene.attaches != 5 {
		t.Errorf("attaches = %d, want 5 (no re-attach on cache hit)", scene.attaches)
	}
}

func TestGenerateSegmentNegativeID(t *testing.T) {
	gen := NewSegmentGenerator(newTestConfig(), nil)
	if _, err := gen.GenerateSegment(-1); err == nil {
		t.Error("negative id should fail")
	}
}

// 挂载失败时错误原样返回，已挂载的轨道被撤销，段不被缓存
func TestGenerateSegmentAttachFailure(t *testing.T) {
	scene := newRecordingScene()
	scene.failAfter = 3
	gen := NewSegmentGenerator(newTestConfig(), scene)

	seg, err := gen.GenerateSegment(4)
	if err != errTestAttach {
		t.Fatalf("expected unmodified attach error, got %v", err)
	}
	if seg != nil {
		t.Error("segment should be nil on failure")
	}
	if scene.live() != 0 {
		t.Errorf("live scene objects = %d, want 0", scene.live())
	}
	if _, ok := gen.Segment(4); ok {
		t.Error("failed segment should not be cached")
	}

	_, err = gen.UpdateGeneration(r3.Vector{})
	if !errors.Is(err, errTestAttach) {
		t.Errorf("UpdateGeneration should propagate attach error, got %v", err)
	}
}

func TestUpdateGenerationWindow(t *testing.T) {
	cfg := newTestConfig()
	gen := NewSegmentGenerator(cfg, nil)

	created, err := gen.UpdateGeneration(r3.Vector{Z: 0})
	if err != nil {
		t.Fatalf("UpdateGeneration error: %v", err)
	}
	if len(created) != cfg.Generation.MaxVisibleSegments+1 {
		t.Fatalf("created %d segments, want %d", len(created), cfg.Generation.MaxVisibleSegments+1)
	}
	for i, seg := range created {
		if seg.ID != i {
			t.Errorf("created[%d].ID = %d, want %d", i, seg.ID, i)
		}
	}

	// 前进 2.5 段：只新增窗口末端的段
	created, _ = gen.UpdateGeneration(r3.Vector{Z: 2.5 * cfg.SegmentLength})
	if len(created) != 2 || created[0].ID != 11 || created[1].ID != 12 {
		ids := make([]int, len(created))
		for i, s := range created {
			ids[i] = s.ID
		}
		t.Errorf("created ids = %v, want [11 12]", ids)
	}

	// 同一位置再次调用不生成新段
	created, _ = gen.UpdateGeneration(r3.Vector{Z: 2.5 * cfg.SegmentLength})
	if len(created) != 0 {
		t.Errorf("repeated call created %d segments", len(created))
	}
}

func TestUpdateGenerationVisibility(t *testing.T) {
	cfg := newTestConfig()
	cfg.Generation.ViewDistance = 50
	gen := NewSegmentGenerator(cfg, nil)

	if _, err := gen.UpdateGeneration(r3.Vector{Z: 0}); err != nil {
		t.Fatalf("UpdateGeneration error: %v", err)
	}

	for _, seg := range gen.Segments() {
		want := seg.StartZ <= 50
		if seg.IsVisible != want {
			t.Errorf("segment %d (start %.0f) visible=%v, want %v", seg.ID, seg.StartZ, seg.IsVisible, want)
		}
	}
}

func TestCleanupOldSegments(t *testing.T) {
	cfg := newTestConfig()
	scene := newRecordingScene()
	gen := NewSegmentGenerator(cfg, scene)

	for id := 0; id < 10; id++ {
		if _, err := gen.GenerateSegment(id); err != nil {
			t.Fatalf("GenerateSegment error: %v", err)
		}
	}
	liveBefore := scene.live()

	// z=160, cleanupDistance=60：段尾 < 100 的段（0..3）被回收
	removed := gen.CleanupOldSegments(r3.Vector{Z: 160})
	want := []int{0, 1, 2, 3}
	if len(removed) != len(want) {
		t.Fatalf("removed = %v, want %v", removed, want)
	}
	for i := range want {
		if removed[i] != want[i] {
			t.Errorf("removed[%d] = %d, want %d", i, removed[i], want[i])
		}
	}

	// 段 4 的段尾恰好等于 100，保留
	if _, ok := gen.Segment(4); !ok {
		t.Error("segment 4 should be kept")
	}
	if oldest, _ := gen.OldestSegmentID(); oldest != 4 {
		t.Errorf("OldestSegmentID = %d, want 4", oldest)
	}

	// 单轨段 3 个 + 多轨段 1 个
	if detached := liveBefore - scene.live(); detached != 3*1+1*5 {
		t.Errorf("detached %d track objects, want 8", detached)
	}
}

// 长时间运行后常驻段数量保持有界
func TestLongRunResidentSegmentsBounded(t *testing.T) {
	cfg := newTestConfig()
	scene := newRecordingScene()
	gen := NewSegmentGenerator(cfg, scene)

	const dt = 1.0 / 60
	speed := cfg.BaseSpeed
	pos := r3.Vector{}
	maxResident := 0

	for frame := 0; frame < 20000; frame++ {
		pos.Z += speed * dt
		speed = math.Min(speed*1.0005, cfg.BaseSpeed*cfg.Speed.MaxSpeedMultiplier)

		if _, err := gen.UpdateGeneration(pos); err != nil {
			t.Fatalf("UpdateGeneration error: %v", err)
		}
		if frame%10 == 0 {
			gen.CleanupOldSegments(pos)
		}
		if n := gen.ResidentCount(); n > maxResident {
			maxResident = n
		}
	}

	if pos.Z < 100*cfg.SegmentLength {
		t.Fatalf("simulation too short: z=%.0f", pos.Z)
	}
	if maxResident >= 50 {
		t.Errorf("max resident segments = %d, want < 50", maxResident)
	}
	// 场景中挂载的轨道对象也必须有界
	if scene.live() >= 50*cfg.TrackCount {
		t.Errorf("live scene objects = %d", scene.live())
	}
}
