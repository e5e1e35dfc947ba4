package systems

import (
	"log"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/ecs"
	"github.com/gonewx/trolley/pkg/types"
	"github.com/gonewx/trolley/pkg/utils"
)

// SkipReason 区间未生成内容的原因
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipSingleTrack      SkipReason = "single-track"
	SkipAlreadyProcessed SkipReason = "already-processed"
	SkipEmptyTail        SkipReason = "empty-tail"
	SkipOutsideWindow    SkipReason = "outside-window"
)

// ContentResult 一次区间内容生成的结果
type ContentResult struct {
	SectionIndex      int
	SegmentID         int
	PeopleGenerated   bool
	BarriersGenerated bool
	BarrierCount      int
	AffectedTracks    []int // 放置了障碍物的轨道索引（从 0 开始，升序）
	PeopleCount       []int // 每条轨道的行人数，长度等于轨道数
	Skipped           SkipReason
}

// TrackContent 区间内单条轨道的内容概况
type TrackContent struct {
	People  int
	Barrier bool
}

// ContentRuleSystem 内容规则系统
//
// 职责：
//   - 按区间规则在多轨段上放置行人和障碍物
//   - 维护已处理区间集合，保证同一区间只生成一次
//   - 回收区间内容，使区间可以再次处理
//
// 内容实体由本系统独占写入（包括碰撞标记），其他系统只读。
//
// 生成规则按顺序判定：
//  1. 非多轨段直接跳过（不标记已处理）
//  2. 已处理区间返回空结果
//  3. 段起点落在区间空尾（>= 2.0 段）时不生成
//  4. 放置窗口与段范围的交集为空时不生成
//  5. 按区间编号决定障碍物数量（0/1/2），随机选择轨道和外观
//  6. 其余轨道各放置 MinPeoplePerTrack..MaxPeoplePerTrack 名行人
//  7. 无论结果如何都标记为已处理
type ContentRuleSystem struct {
	cfg           *config.TrolleyConfig
	entityManager *ecs.EntityManager
	difficulty    *DifficultyEngine
	rng           utils.RandomSource
	scene         SceneGraph

	processed map[int]struct{}
	bySection map[int][]ecs.EntityID
	bySegment map[int][]ecs.EntityID
	occupancy map[int][]TrackContent
}

// NewContentRuleSystem 创建内容规则系统
// scene 为 nil 时使用 NopSceneGraph
func NewContentRuleSystem(
	cfg *config.TrolleyConfig,
	em *ecs.EntityManager,
	difficulty *DifficultyEngine,
	rng utils.RandomSource,
	scene SceneGraph,
) *ContentRuleSystem {
	if scene == nil {
		scene = NopSceneGraph{}
	}
	return &ContentRuleSystem{
		cfg:           cfg,
		entityManager: em,
		difficulty:    difficulty,
		rng:           rng,
		scene:         scene,
		processed:     make(map[int]struct{}),
		bySection:     make(map[int][]ecs.EntityID),
		bySegment:     make(map[int][]ecs.EntityID),
		occupancy:     make(map[int][]TrackContent),
	}
}

// GenerateContentForSection 为区间生成行人和障碍物
// 单轨段直接返回且不标记区间，区间留给之后的多轨段处理。
//
// 参数：
//   - sectionIndex: 区间编号
//   - seg: 触发生成的轨道段，内容只放在该段范围内
//
// 返回：
//   - ContentResult: 生成结果（跳过时 Skipped 非空）
//   - error: 场景挂载失败时原样返回，区间仍视为已处理
func (s *ContentRuleSystem) GenerateContentForSection(sectionIndex int, seg *components.Segment) (result ContentResult, err error) {
	result = ContentResult{SectionIndex: sectionIndex}
	if seg != nil {
		result.SegmentID = seg.ID
	}

	if seg == nil || seg.TrackCount != s.cfg.TrackCount || len(seg.Tracks) != seg.TrackCount || s.cfg.TrackCount < 2 {
		result.Skipped = SkipSingleTrack
		return result, nil
	}

	if s.IsProcessed(sectionIndex) {
		result.Skipped = SkipAlreadyProcessed
		return result, nil
	}
	defer s.markProcessed(sectionIndex)

	if config.InEmptyTail(seg.ID) {
		result.Skipped = SkipEmptyTail
		log.Printf("[ContentRuleSystem] Section %d: segment %d in empty tail, no content", sectionIndex, seg.ID)
		return result, nil
	}

	lo, hi := s.cfg.PlacementWindow(sectionIndex)
	lo = math.Max(lo, seg.StartZ)
	hi = math.Min(hi, seg.EndZ)
	if lo >= hi {
		result.Skipped = SkipOutsideWindow
		log.Printf("[ContentRuleSystem] Section %d: segment %d outside placement window, no content", sectionIndex, seg.ID)
		return result, nil
	}

	trackCount := seg.TrackCount
	occupancy := make([]TrackContent, trackCount)
	s.occupancy[sectionIndex] = occupancy
	result.PeopleCount = make([]int, trackCount)

	// 障碍物
	barrierCount := s.difficulty.BarrierCount(sectionIndex)
	perm := s.rng.Perm(trackCount)
	barrierTracks := append([]int(nil), perm[:barrierCount]...)
	sort.Ints(barrierTracks)

	for _, trackIndex := range barrierTracks {
		barrierType := types.BarrierPalette[s.rng.Intn(len(types.BarrierPalette))]
		z := utils.RandomRange(s.rng, lo, hi)
		if _, err = s.spawn(sectionIndex, seg, trackIndex, barrierType, z); err != nil {
			return result, err
		}
		occupancy[trackIndex].Barrier = true
		result.BarrierCount++
	}
	result.AffectedTracks = barrierTracks
	result.BarriersGenerated = result.BarrierCount > 0

	// 行人
	openTracks := perm[barrierCount:]
	counts := s.peopleCounts(len(openTracks))
	for i, trackIndex := range openTracks {
		for n := 0; n < counts[i]; n++ {
			z := utils.RandomRange(s.rng, lo, hi)
			if _, err = s.spawn(sectionIndex, seg, trackIndex, types.ContentPerson, z); err != nil {
				return result, err
			}
			occupancy[trackIndex].People++
			result.PeopleCount[trackIndex]++
		}
	}
	result.PeopleGenerated = len(openTracks) > 0

	log.Printf("[ContentRuleSystem] Section %d (segment %d): barriers=%d on %v, people=%v, window=[%.2f, %.2f]",
		sectionIndex, seg.ID, result.BarrierCount, result.AffectedTracks, result.PeopleCount, lo, hi)
	return result, nil
}

// peopleCounts 为 n 条无障碍轨道抽取行人数
//
// 以 LightTrackChance 的概率挑一条"轻载"轨道，人数取 Min..Min+1；
// 其余轨道在 Min..Max 中均匀抽取。
func (s *ContentRuleSystem) peopleCounts(n int) []int {
	minPeople := s.cfg.Content.MinPeoplePerTrack
	maxPeople := s.cfg.Content.MaxPeoplePerTrack

	counts := make([]int, n)
	for i := range counts {
		counts[i] = utils.RandomIntRange(s.rng, minPeople, maxPeople)
	}
	if n > 0 && s.rng.Float64() < s.cfg.Content.LightTrackChance {
		light := s.rng.Intn(n)
		counts[light] = utils.RandomIntRange(s.rng, minPeople, min(minPeople+1, maxPeople))
	}
	return counts
}

// spawn 创建一个内容实体并挂载到场景
// 挂载失败时实体已登记，随区间一起回收
func (s *ContentRuleSystem) spawn(sectionIndex int, seg *components.Segment, trackIndex int, contentType types.ContentType, z float64) (ecs.EntityID, error) {
	id := s.entityManager.CreateEntity()
	pos := r3.Vector{X: seg.Tracks[trackIndex].X, Y: 0, Z: z}

	radius := s.cfg.Collision.PersonRadius
	if contentType.IsBarrier() {
		radius = s.cfg.Collision.BarrierRadius
	}

	content := &components.ContentComponent{
		Type:         contentType,
		SegmentID:    seg.ID,
		SectionIndex: sectionIndex,
		TrackIndex:   trackIndex,
	}
	ecs.AddComponent(s.entityManager, id, content)
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{Pos: pos})
	ecs.AddComponent(s.entityManager, id, &components.CollisionComponent{HalfWidth: radius, HalfDepth: radius})

	s.bySection[sectionIndex] = append(s.bySection[sectionIndex], id)
	s.bySegment[seg.ID] = append(s.bySegment[seg.ID], id)

	handle := &components.SceneObject{
		Kind:        components.SceneObjectContent,
		ID:          uint64(id),
		SegmentID:   seg.ID,
		TrackIndex:  trackIndex,
		ContentType: contentType,
		Position:    pos,
	}
	if err := s.scene.Attach(handle); err != nil {
		return id, err
	}
	content.Handle = handle
	return id, nil
}

// markProcessed 标记区间已处理
func (s *ContentRuleSystem) markProcessed(sectionIndex int) {
	s.processed[sectionIndex] = struct{}{}
}

// IsProcessed 判断区间是否已处理
func (s *ContentRuleSystem) IsProcessed(sectionIndex int) bool {
	_, ok := s.processed[sectionIndex]
	return ok
}

// ProcessedSections 返回已处理的区间编号（升序）
func (s *ContentRuleSystem) ProcessedSections() []int {
	result := make([]int, 0, len(s.processed))
	for idx := range s.processed {
		result = append(result, idx)
	}
	sort.Ints(result)
	return result
}

// CleanupContentForSection 回收区间的所有内容实体，并将区间移出已处理集合
func (s *ContentRuleSystem) CleanupContentForSection(sectionIndex int) {
	ids := s.bySection[sectionIndex]
	for _, id := range ids {
		if content, ok := ecs.GetComponent[*components.ContentComponent](s.entityManager, id); ok {
			if content.Handle != nil {
				s.scene.Detach(content.Handle)
				content.Handle = nil
			}
			s.removeFromSegmentIndex(content.SegmentID, id)
		}
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()

	delete(s.bySection, sectionIndex)
	delete(s.occupancy, sectionIndex)
	delete(s.processed, sectionIndex)

	if len(ids) > 0 {
		log.Printf("[ContentRuleSystem] Cleaned up section %d (%d entities)", sectionIndex, len(ids))
	}
}

// removeFromSegmentIndex 从段索引中移除实体
func (s *ContentRuleSystem) removeFromSegmentIndex(segmentID int, id ecs.EntityID) {
	list := s.bySegment[segmentID]
	for i, e := range list {
		if e == id {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.bySegment, segmentID)
		return
	}
	s.bySegment[segmentID] = list
}

// CleanupSectionsBefore 回收编号小于 sectionIndex 的所有区间
func (s *ContentRuleSystem) CleanupSectionsBefore(sectionIndex int) []int {
	var stale []int
	for idx := range s.processed {
		if idx < sectionIndex {
			stale = append(stale, idx)
		}
	}
	sort.Ints(stale)
	for _, idx := range stale {
		s.CleanupContentForSection(idx)
	}
	return stale
}

// EntitiesInSegment 返回段内的内容实体（按创建顺序）
func (s *ContentRuleSystem) EntitiesInSegment(segmentID int) []ecs.EntityID {
	return s.bySegment[segmentID]
}

// TrackOccupancy 返回区间每条轨道的内容概况
// 区间未生成内容时返回 nil
func (s *ContentRuleSystem) TrackOccupancy(sectionIndex int) []TrackContent {
	return s.occupancy[sectionIndex]
}

// MarkCollided 标记内容实体已被撞到，并移除其碰撞包围盒
// 返回 true 表示首次标记
func (s *ContentRuleSystem) MarkCollided(id ecs.EntityID) bool {
	content, ok := ecs.GetComponent[*components.ContentComponent](s.entityManager, id)
	if !ok || content.Collided {
		return false
	}
	content.Collided = true
	ecs.RemoveComponent[*components.CollisionComponent](s.entityManager, id)
	return true
}

// EntityCount 返回当前存活的内容实体数量
func (s *ContentRuleSystem) EntityCount() int {
	return len(ecs.GetEntitiesWith1[*components.ContentComponent](s.entityManager))
}

// Reset 回收所有区间内容
func (s *ContentRuleSystem) Reset() {
	for _, idx := range s.ProcessedSections() {
		s.CleanupContentForSection(idx)
	}
	s.processed = make(map[int]struct{})
}
