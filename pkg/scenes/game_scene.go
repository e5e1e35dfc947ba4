package scenes

import (
	"fmt"
	"log"

	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/ecs"
	"github.com/gonewx/trolley/pkg/game"
	"github.com/gonewx/trolley/pkg/systems"
	"github.com/gonewx/trolley/pkg/utils"
)

// Options 创建 GameScene 的可选协作方
type Options struct {
	// Scene 渲染协作方，nil 表示无头运行
	Scene systems.SceneGraph

	// Random 内容生成随机数源，nil 时按配置中的 RandomSeed 创建
	Random utils.RandomSource

	// Autopilot 是否由自动驾驶代替玩家选择轨道
	Autopilot bool

	// OnGameOver 游戏结束时回调（每局一次）
	OnGameOver func(rec game.PersistedRecord)
}

// GameScene 一局游戏的会话
//
// 持有全部系统，每帧按固定顺序调用：
//  1. 电车运动（含段/区间越界后的速度递增）
//  2. 轨道段生成与回收，新段的区间内容生成
//  3. 自动驾驶规划（启用时）
//  4. 区间换轨调度
//  5. 碰撞检测与段结算
//  6. 进度状态同步
//
// 单线程使用，不做加锁保护。
type GameScene struct {
	cfg  *config.TrolleyConfig
	opts Options

	entityManager *ecs.EntityManager
	progression   *game.ProgressionState

	difficulty       *systems.DifficultyEngine
	segmentGenerator *systems.SegmentGenerator
	contentSystem    *systems.ContentRuleSystem
	trolleySystem    *systems.TrolleyMotionSystem
	scheduler        *systems.SectionScheduler
	collisionSystem  *systems.CollisionSystem
	autopilot        *systems.Autopilot

	lastSegment      int
	lastSection      int
	gameOverNotified bool
}

// NewGameScene 创建会话并生成开局的前瞻轨道
//
// 返回：
//   - *GameScene: 会话
//   - error: 配置无效或场景挂载失败时返回错误
func NewGameScene(cfg *config.TrolleyConfig, opts Options) (*GameScene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trolley config: %w", err)
	}
	if opts.Scene == nil {
		opts.Scene = systems.NopSceneGraph{}
	}
	if opts.Random == nil {
		opts.Random = utils.NewRandomSource(cfg.RandomSeed)
	}

	s := &GameScene{
		cfg:           cfg,
		opts:          opts,
		entityManager: ecs.NewEntityManager(),
	}

	s.difficulty = systems.NewDifficultyEngine(cfg)
	s.segmentGenerator = systems.NewSegmentGenerator(cfg, opts.Scene)
	s.contentSystem = systems.NewContentRuleSystem(cfg, s.entityManager, s.difficulty, opts.Random, opts.Scene)
	s.trolleySystem = systems.NewTrolleyMotionSystem(cfg, s.difficulty)
	s.scheduler = systems.NewSectionScheduler(cfg, s.trolleySystem)
	s.progression = game.NewProgressionState(s.trolleySystem.CurrentTrack())
	s.collisionSystem = systems.NewCollisionSystem(cfg, s.entityManager, s.contentSystem, s.trolleySystem, s.progression)
	s.autopilot = systems.NewAutopilot(cfg, s.contentSystem, s.trolleySystem, s.scheduler)

	if err := s.updateGeneration(); err != nil {
		return nil, err
	}

	log.Printf("[GameScene] New run %s (tracks=%d, cadence=%s, autopilot=%v)",
		s.progression.RunID, cfg.TrackCount, cfg.Speed.Cadence, opts.Autopilot)
	return s, nil
}

// Update 推进一帧
//
// 暂停、游戏结束或 deltaTime <= 0 时不做任何事。
// 场景挂载失败的错误原样返回。
func (s *GameScene) Update(deltaTime float64) error {
	if deltaTime <= 0 || s.progression.IsPaused || s.progression.IsGameOver {
		return nil
	}

	// 1. 电车运动
	s.trolleySystem.Update(deltaTime)
	s.applyCrossings()

	// 2. 轨道段与内容
	if err := s.updateGeneration(); err != nil {
		return err
	}
	s.cleanup()

	// 3. 自动驾驶
	if s.opts.Autopilot {
		s.autopilot.Plan()
	}

	// 4. 区间换轨
	s.scheduler.Update(deltaTime)

	// 5. 碰撞与结算
	s.collisionSystem.Update(deltaTime)

	// 6. 进度同步
	s.syncProgression()
	return nil
}

// applyCrossings 检测段/区间越界并按配置的节奏递增速度
func (s *GameScene) applyCrossings() {
	z := s.trolleySystem.Position().Z

	segment := s.cfg.SegmentIndexAt(z)
	for s.lastSegment < segment {
		s.lastSegment++
		if s.cfg.Speed.Cadence == config.CadenceSegment {
			s.trolleySystem.IncreaseSpeed()
		}
	}

	section := s.cfg.SectionIndexAt(z)
	for s.lastSection < section {
		s.lastSection++
		if s.cfg.Speed.Cadence == config.CadenceSection {
			s.trolleySystem.IncreaseSpeedPerSection()
		}
	}
}

// updateGeneration 生成前瞻段，并为新的多轨段生成区间内容
func (s *GameScene) updateGeneration() error {
	created, err := s.segmentGenerator.UpdateGeneration(s.trolleySystem.Position())
	if err != nil {
		return err
	}
	for _, seg := range created {
		if !seg.IsMultiTrack() {
			continue
		}
		if _, err := s.contentSystem.GenerateContentForSection(config.SectionIndexForSegment(seg.ID), seg); err != nil {
			return err
		}
	}
	return nil
}

// cleanup 回收身后的段，以及段已全部回收的区间内容
func (s *GameScene) cleanup() {
	removed := s.segmentGenerator.CleanupOldSegments(s.trolleySystem.Position())
	if len(removed) == 0 {
		return
	}
	oldest, ok := s.segmentGenerator.OldestSegmentID()
	if !ok {
		return
	}
	s.contentSystem.CleanupSectionsBefore(config.SectionIndexForSegment(oldest))
}

// syncProgression 同步进度状态，并在游戏结束时通知一次
func (s *GameScene) syncProgression() {
	pos := s.trolleySystem.Position()
	s.progression.UpdatePosition(
		s.cfg.SegmentIndexAt(pos.Z),
		s.cfg.SectionIndexAt(pos.Z),
		s.trolleySystem.CurrentTrack(),
		pos.Z,
	)

	if s.progression.IsGameOver && !s.gameOverNotified {
		s.gameOverNotified = true
		log.Printf("[GameScene] Run %s over: score=%d, hit=%d, avoided=%d, distance=%.1f",
			s.progression.RunID, s.progression.Score, s.progression.PeopleHit, s.progression.PeopleAvoided, pos.Z)
		if s.opts.OnGameOver != nil {
			s.opts.OnGameOver(s.progression.ToRecord())
		}
	}
}

// SelectTrack 玩家选择轨道（输入协作方入口）
//
// 请求登记到电车当前所在区间，越过该区间的结束边界时才真正换轨。
// 以下情况忽略请求并记录日志：暂停、游戏结束、仍在单轨开局段、编号非法。
//
// 返回是否已登记。
func (s *GameScene) SelectTrack(n int) bool {
	switch {
	case s.progression.IsGameOver:
		log.Printf("[GameScene] Ignoring track %d: game over", n)
		return false
	case s.progression.IsPaused:
		log.Printf("[GameScene] Ignoring track %d: paused", n)
		return false
	}

	z := s.trolleySystem.Position().Z
	if s.cfg.SegmentIndexAt(z) < s.cfg.SingleTrackSegmentCount {
		log.Printf("[GameScene] Ignoring track %d: still on single-track lead-in", n)
		return false
	}
	if _, err := s.trolleySystem.GetTrackPosition(n); err != nil {
		return false
	}

	s.scheduler.ScheduleTrackChange(n, s.cfg.SectionIndexAt(z))
	return true
}

// Pause 暂停
func (s *GameScene) Pause() {
	s.progression.SetPaused(true)
}

// Resume 继续
func (s *GameScene) Resume() {
	s.progression.SetPaused(false)
}

// TogglePause 切换暂停状态
func (s *GameScene) TogglePause() {
	s.progression.SetPaused(!s.progression.IsPaused)
}

// Restart 开始新的一局
//
// 保留配置和随机数源，生成新的 RunID。
func (s *GameScene) Restart() error {
	s.scheduler.Clear()
	s.contentSystem.Reset()
	s.segmentGenerator.Reset()
	s.trolleySystem.Reset()
	s.collisionSystem.Reset()
	s.autopilot.Reset()
	s.progression.Reset(s.trolleySystem.CurrentTrack())

	s.lastSegment = 0
	s.lastSection = 0
	s.gameOverNotified = false

	log.Printf("[GameScene] Restarted, new run %s", s.progression.RunID)
	return s.updateGeneration()
}

// Snapshot 返回可持久化的进度记录
func (s *GameScene) Snapshot() game.PersistedRecord {
	return s.progression.ToRecord()
}

// Progression 返回进度状态（只读使用）
func (s *GameScene) Progression() *game.ProgressionState {
	return s.progression
}

// Trolley 返回电车状态（只读使用）
func (s *GameScene) Trolley() *components.TrolleyState {
	return s.trolleySystem.State()
}

// Segments 返回常驻轨道段（按 id 升序）
func (s *GameScene) Segments() []*components.Segment {
	return s.segmentGenerator.Segments()
}

// Pending 返回待执行的换轨请求
func (s *GameScene) Pending() []systems.ScheduledChange {
	return s.scheduler.Pending()
}

// ContentEntityCount 返回当前的内容实体数量
func (s *GameScene) ContentEntityCount() int {
	return s.contentSystem.EntityCount()
}

// IsHighSpeed 当前是否处于高速
func (s *GameScene) IsHighSpeed() bool {
	return s.trolleySystem.IsHighSpeed()
}

// Config 返回会话使用的配置
func (s *GameScene) Config() *config.TrolleyConfig {
	return s.cfg
}
