package systems

import (
	"log"

	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/ecs"
	"github.com/gonewx/trolley/pkg/game"
)

// SegmentOutcome 一个完成段的结算结果
type SegmentOutcome struct {
	SegmentID int
	Avoided   int
	Hit       int
}

// CollisionSystem 碰撞与结算系统
//
// 职责：
//   - 用电车包围盒检测当前段及相邻段的内容实体
//   - 撞到障碍物立即结束游戏
//   - 撞到行人计入 PeopleHit（每个行人只计一次）
//   - 电车驶过段尾时结算该段：Score += 避开人数 - 撞到人数
//
// 避开人数只统计电车在该段内占用过的轨道上未被撞到的行人。
// 包围盒沿 Z 覆盖上一帧到当前帧的扫掠范围，检测扫掠经过的所有段，
// 高速或大步长时不会穿过行人。
type CollisionSystem struct {
	cfg           *config.TrolleyConfig
	entityManager *ecs.EntityManager
	content       *ContentRuleSystem
	trolley       *TrolleyMotionSystem
	progression   *game.ProgressionState

	trolleyBox components.CollisionComponent

	hitsBySegment map[int]int
	occupied      map[int]map[int]bool // segmentID -> 电车占用过的轨道索引
	nextSegment   int                  // 下一个待结算的段
	lastX         float64
	lastZ         float64
	started       bool

	outcomes []SegmentOutcome
}

// NewCollisionSystem 创建碰撞系统
func NewCollisionSystem(
	cfg *config.TrolleyConfig,
	em *ecs.EntityManager,
	content *ContentRuleSystem,
	trolley *TrolleyMotionSystem,
	progression *game.ProgressionState,
) *CollisionSystem {
	return &CollisionSystem{
		cfg:           cfg,
		entityManager: em,
		content:       content,
		trolley:       trolley,
		progression:   progression,
		trolleyBox: components.CollisionComponent{
			HalfWidth: cfg.Collision.TrolleyHalfWidth,
			HalfDepth: cfg.Collision.TrolleyHalfDepth,
		},
		hitsBySegment: make(map[int]int),
		occupied:      make(map[int]map[int]bool),
	}
}

// Reset 清空结算进度
func (s *CollisionSystem) Reset() {
	s.hitsBySegment = make(map[int]int)
	s.occupied = make(map[int]map[int]bool)
	s.nextSegment = 0
	s.lastX = 0
	s.lastZ = 0
	s.started = false
	s.outcomes = nil
}

// Update 检测碰撞并结算已完成的段
func (s *CollisionSystem) Update(deltaTime float64) {
	if s.progression.IsGameOver {
		return
	}

	pos := s.trolley.Position()
	if !s.started {
		s.lastX, s.lastZ = pos.X, pos.Z
		s.started = true
	}

	// 扫掠包围盒
	lo, hi := s.lastZ, pos.Z
	if lo > hi {
		lo, hi = hi, lo
	}
	box := components.CollisionComponent{
		HalfWidth: s.trolleyBox.HalfWidth,
		HalfDepth: s.trolleyBox.HalfDepth + (hi-lo)/2,
	}
	centerZ := (lo + hi) / 2
	s.markOccupied(lo, hi, s.lastX, pos.X)
	s.lastX, s.lastZ = pos.X, pos.Z

	first := s.cfg.SegmentIndexAt(lo) - 1
	last := s.cfg.SegmentIndexAt(hi) + 1
	for segmentID := first; segmentID <= last; segmentID++ {
		if s.checkSegment(segmentID, box, pos.X, centerZ) {
			return
		}
	}

	s.completeSegments(pos.Z)
}

// markOccupied 记录电车在 [loZ, hiZ] 经过的段上占用的轨道
// 轨道中心落在电车横向扫掠范围（含半宽）内即视为占用
func (s *CollisionSystem) markOccupied(loZ, hiZ, x0, x1 float64) {
	minX, maxX := min(x0, x1)-s.trolleyBox.HalfWidth, max(x0, x1)+s.trolleyBox.HalfWidth
	for segmentID := max(s.cfg.SegmentIndexAt(loZ), s.nextSegment); segmentID <= s.cfg.SegmentIndexAt(hiZ); segmentID++ {
		trackCount := s.cfg.TrackCountForSegment(segmentID)
		for i := 0; i < trackCount; i++ {
			x := s.cfg.LaneX(i, trackCount)
			if x < minX || x > maxX {
				continue
			}
			tracks := s.occupied[segmentID]
			if tracks == nil {
				tracks = make(map[int]bool)
				s.occupied[segmentID] = tracks
			}
			tracks[i] = true
		}
	}
}

// checkSegment 检测一个段内的内容实体
// 撞到障碍物时返回 true
func (s *CollisionSystem) checkSegment(segmentID int, box components.CollisionComponent, x, z float64) bool {
	for _, id := range s.content.EntitiesInSegment(segmentID) {
		content, ok := ecs.GetComponent[*components.ContentComponent](s.entityManager, id)
		if !ok || content.Collided {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		bounds, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if !box.Overlaps(x, z, *bounds, pos.Pos.X, pos.Pos.Z) {
			continue
		}

		if content.Type.IsBarrier() {
			s.content.MarkCollided(id)
			log.Printf("[CollisionSystem] Barrier %s hit on track %d (segment %d)",
				content.Type, content.TrackIndex+1, segmentID)
			s.progression.EndByBarrier()
			return true
		}

		if s.content.MarkCollided(id) {
			s.hitsBySegment[segmentID]++
			s.progression.RecordPersonHit()
			log.Printf("[CollisionSystem] Person hit on track %d (segment %d, total=%d)",
				content.TrackIndex+1, segmentID, s.progression.PeopleHit)
		}
	}
	return false
}

// completeSegments 结算所有段尾已被驶过的段
func (s *CollisionSystem) completeSegments(z float64) {
	for s.cfg.SegmentStartZ(s.nextSegment)+s.cfg.SegmentLength <= z {
		s.completeSegment(s.nextSegment)
		s.nextSegment++
	}
}

// completeSegment 结算单个段
func (s *CollisionSystem) completeSegment(segmentID int) {
	tracks := s.occupied[segmentID]
	avoided := 0
	for _, id := range s.content.EntitiesInSegment(segmentID) {
		content, ok := ecs.GetComponent[*components.ContentComponent](s.entityManager, id)
		if !ok || !content.Type.IsPerson() || content.Collided || !tracks[content.TrackIndex] {
			continue
		}
		avoided++
	}
	hit := s.hitsBySegment[segmentID]
	delete(s.hitsBySegment, segmentID)
	delete(s.occupied, segmentID)

	s.progression.ApplySegmentOutcome(avoided, hit)
	s.outcomes = append(s.outcomes, SegmentOutcome{SegmentID: segmentID, Avoided: avoided, Hit: hit})

	if avoided > 0 || hit > 0 {
		log.Printf("[CollisionSystem] Segment %d complete: avoided=%d, hit=%d, score=%d",
			segmentID, avoided, hit, s.progression.Score)
	}
}

// DrainOutcomes 取出自上次调用以来的段结算结果
func (s *CollisionSystem) DrainOutcomes() []SegmentOutcome {
	out := s.outcomes
	s.outcomes = nil
	return out
}

// CompletedSegments 返回已结算的段数量
func (s *CollisionSystem) CompletedSegments() int {
	return s.nextSegment
}
