package systems

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
)

// SegmentGenerator 轨道段生成系统
//
// 职责：
//   - 在电车前方按需生成轨道段（前瞻窗口）
//   - 开局单轨，之后固定为多轨
//   - 按可见距离标记段的可见性
//   - 回收电车身后足够远的段，保证常驻段数量有界
//
// 段集合由本系统独占写入，其他系统只读。
type SegmentGenerator struct {
	cfg   *config.TrolleyConfig
	scene SceneGraph

	segments map[int]*components.Segment
}

// NewSegmentGenerator 创建轨道段生成系统
// scene 为 nil 时使用 NopSceneGraph
func NewSegmentGenerator(cfg *config.TrolleyConfig, scene SceneGraph) *SegmentGenerator {
	if scene == nil {
		scene = NopSceneGraph{}
	}
	return &SegmentGenerator{
		cfg:      cfg,
		scene:    scene,
		segments: make(map[int]*components.Segment),
	}
}

// GenerateSegment 生成（或返回已生成的）轨道段
//
// 同一 id 多次调用返回同一个 *Segment。
// 场景挂载失败时撤销本段已挂载的轨道，错误原样返回，且该段不会被缓存。
func (g *SegmentGenerator) GenerateSegment(id int) (*components.Segment, error) {
	if seg, ok := g.segments[id]; ok {
		return seg, nil
	}
	if id < 0 {
		return nil, fmt.Errorf("segment id must be >= 0, got %d", id)
	}

	trackCount := g.cfg.TrackCountForSegment(id)
	startZ := g.cfg.SegmentStartZ(id)
	seg := &components.Segment{
		ID:         id,
		StartZ:     startZ,
		EndZ:       startZ + g.cfg.SegmentLength,
		TrackCount: trackCount,
		Tracks:     make([]components.Track, trackCount),
	}

	for i := 0; i < trackCount; i++ {
		x := g.cfg.LaneX(i, trackCount)
		handle := &components.SceneObject{
			Kind:       components.SceneObjectTrack,
			SegmentID:  id,
			TrackIndex: i,
			Position:   r3.Vector{X: x, Y: 0, Z: startZ},
			Length:     g.cfg.SegmentLength,
		}
		if err := g.scene.Attach(handle); err != nil {
			for j := 0; j < i; j++ {
				g.scene.Detach(seg.Tracks[j].Handle)
			}
			return nil, err
		}
		seg.Tracks[i] = components.Track{
			Index:     i,
			SegmentID: id,
			X:         x,
			Handle:    handle,
		}
	}

	seg.IsGenerated = true
	seg.IsVisible = true
	g.segments[id] = seg

	log.Printf("[SegmentGenerator] Generated segment %d (tracks=%d, z=%.1f..%.1f)", id, trackCount, seg.StartZ, seg.EndZ)
	return seg, nil
}

// UpdateGeneration 生成前瞻窗口内尚未生成的段，并刷新可见性
//
// 窗口为 [当前段 + MinLookahead, 当前段 + MaxVisibleSegments]。
//
// 返回：
//   - []*components.Segment: 本次新生成的段（按 id 升序）
//   - error: 场景挂载失败时原样返回
func (g *SegmentGenerator) UpdateGeneration(pos r3.Vector) ([]*components.Segment, error) {
	current := g.cfg.SegmentIndexAt(pos.Z)
	first := current + g.cfg.Generation.MinLookahead
	if first < 0 {
		first = 0
	}
	last := current + g.cfg.Generation.MaxVisibleSegments

	var created []*components.Segment
	for id := first; id <= last; id++ {
		if _, ok := g.segments[id]; ok {
			continue
		}
		seg, err := g.GenerateSegment(id)
		if err != nil {
			return created, err
		}
		created = append(created, seg)
	}

	g.updateVisibility(pos)
	return created, nil
}

// updateVisibility 按可见距离标记段的可见性（仅作为渲染提示）
func (g *SegmentGenerator) updateVisibility(pos r3.Vector) {
	for _, seg := range g.segments {
		seg.IsVisible = distanceToSegment(seg, pos.Z) <= g.cfg.Generation.ViewDistance
	}
}

// distanceToSegment 返回 z 到段 [StartZ, EndZ] 的最近距离
func distanceToSegment(seg *components.Segment, z float64) float64 {
	switch {
	case z < seg.StartZ:
		return seg.StartZ - z
	case z > seg.EndZ:
		return z - seg.EndZ
	default:
		return 0
	}
}

// CleanupOldSegments 回收段尾落后电车超过 CleanupDistance 的段
//
// 返回被回收的段 id（升序）。
func (g *SegmentGenerator) CleanupOldSegments(pos r3.Vector) []int {
	limit := pos.Z - g.cfg.Generation.CleanupDistance

	var removed []int
	for id, seg := range g.segments {
		if seg.EndZ >= limit {
			continue
		}
		for i := range seg.Tracks {
			if seg.Tracks[i].Handle != nil {
				g.scene.Detach(seg.Tracks[i].Handle)
				seg.Tracks[i].Handle = nil
			}
		}
		seg.IsGenerated = false
		seg.IsVisible = false
		delete(g.segments, id)
		removed = append(removed, id)
	}

	if len(removed) > 0 {
		sort.Ints(removed)
		log.Printf("[SegmentGenerator] Cleaned up %d segments (%d..%d), resident=%d",
			len(removed), removed[0], removed[len(removed)-1], len(g.segments))
	}
	return removed
}

// Segment 返回已生成的段
func (g *SegmentGenerator) Segment(id int) (*components.Segment, bool) {
	seg, ok := g.segments[id]
	return seg, ok
}

// Segments 返回所有常驻段（按 id 升序）
func (g *SegmentGenerator) Segments() []*components.Segment {
	result := make([]*components.Segment, 0, len(g.segments))
	for _, seg := range g.segments {
		result = append(result, seg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ResidentCount 返回常驻段数量
func (g *SegmentGenerator) ResidentCount() int {
	return len(g.segments)
}

// OldestSegmentID 返回常驻段中最小的 id
func (g *SegmentGenerator) OldestSegmentID() (int, bool) {
	oldest := math.MaxInt
	for id := range g.segments {
		if id < oldest {
			oldest = id
		}
	}
	return oldest, len(g.segments) > 0
}

// Reset 回收所有段
func (g *SegmentGenerator) Reset() {
	for _, seg := range g.segments {
		for i := range seg.Tracks {
			if seg.Tracks[i].Handle != nil {
				g.scene.Detach(seg.Tracks[i].Handle)
			}
		}
	}
	g.segments = make(map[int]*components.Segment)
}
