package systems

import (
	"testing"

	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/ecs"
	"github.com/gonewx/trolley/pkg/game"
	"github.com/gonewx/trolley/pkg/types"
	"github.com/gonewx/trolley/pkg/utils"
)

// collisionFixture 碰撞测试环境
type collisionFixture struct {
	cfg         *config.TrolleyConfig
	em          *ecs.EntityManager
	gen         *SegmentGenerator
	content     *ContentRuleSystem
	trolley     *TrolleyMotionSystem
	progression *game.ProgressionState
	collision   *CollisionSystem
}

func newCollisionFixture(t *testing.T) *collisionFixture {
	t.Helper()
	cfg := newTestConfig()
	em := ecs.NewEntityManager()
	difficulty := NewDifficultyEngine(cfg)
	content := NewContentRuleSystem(cfg, em, difficulty, utils.NewRandomSource(1), nil)
	trolley := NewTrolleyMotionSystem(cfg, difficulty)
	progression := game.NewProgressionState(trolley.CurrentTrack())
	return &collisionFixture{
		cfg:         cfg,
		em:          em,
		gen:         NewSegmentGenerator(cfg, nil),
		content:     content,
		trolley:     trolley,
		progression: progression,
		collision:   NewCollisionSystem(cfg, em, content, trolley, progression),
	}
}

// place 在段内指定轨道（从 0 开始）放置内容
func (f *collisionFixture) place(t *testing.T, segmentID, trackIndex int, contentType types.ContentType, z float64) ecs.EntityID {
	t.Helper()
	seg, err := f.gen.GenerateSegment(segmentID)
	if err != nil {
		t.Fatalf("GenerateSegment error: %v", err)
	}
	id, err := f.content.spawn(config.SectionIndexForSegment(segmentID), seg, trackIndex, contentType, z)
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	return id
}

// runTo 以固定帧长推进到指定 Z
func (f *collisionFixture) runTo(z float64) {
	const dt = 1.0 / 60
	for f.trolley.Position().Z < z && !f.progression.IsGameOver {
		f.trolley.Update(dt)
		f.collision.Update(dt)
	}
}

func TestPersonHitAndSegmentOutcome(t *testing.T) {
	f := newCollisionFixture(t)

	// 中间轨道正前方一人，两侧轨道各一人
	hit := f.place(t, 5, 2, types.ContentPerson, 105)
	f.place(t, 5, 0, types.ContentPerson, 108)
	f.place(t, 5, 4, types.ContentPerson, 112)

	f.runTo(119)
	if f.progression.PeopleHit != 1 {
		t.Errorf("PeopleHit = %d, want 1", f.progression.PeopleHit)
	}
	// 段未完成前不结算分数
	if f.progression.Score != 0 || f.progression.PeopleAvoided != 0 {
		t.Errorf("scored before segment completion: score=%d avoided=%d",
			f.progression.Score, f.progression.PeopleAvoided)
	}
	if c, _ := ecs.GetComponent[*components.ContentComponent](f.em, hit); !c.Collided {
		t.Error("hit person should be marked collided")
	}

	// 两侧轨道电车没有占用，不计入避开
	f.runTo(121)
	if f.progression.PeopleAvoided != 0 {
		t.Errorf("PeopleAvoided = %d, want 0", f.progression.PeopleAvoided)
	}
	if f.progression.Score != -1 {
		t.Errorf("Score = %d, want -1 (0 avoided - 1 hit)", f.progression.Score)
	}
	if f.progression.IsGameOver {
		t.Error("person hit should not end the game")
	}

	outcomes := f.collision.DrainOutcomes()
	last := outcomes[len(outcomes)-1]
	if last.SegmentID != 5 || last.Avoided != 0 || last.Hit != 1 {
		t.Errorf("last outcome = %+v", last)
	}
	if f.collision.CompletedSegments() != 6 {
		t.Errorf("CompletedSegments = %d, want 6", f.collision.CompletedSegments())
	}
	if len(f.collision.DrainOutcomes()) != 0 {
		t.Error("DrainOutcomes should empty the buffer")
	}
}

// 同一个行人只计一次
func TestPersonCountedOnce(t *testing.T) {
	f := newCollisionFixture(t)
	f.place(t, 5, 2, types.ContentPerson, 105)

	f.runTo(130)
	if f.progression.PeopleHit != 1 {
		t.Errorf("PeopleHit = %d, want 1", f.progression.PeopleHit)
	}
	if f.progression.Score != -1 {
		t.Errorf("Score = %d, want -1", f.progression.Score)
	}
}

func TestBarrierEndsGame(t *testing.T) {
	f := newCollisionFixture(t)
	f.place(t, 5, 2, types.ContentRock, 110)
	f.place(t, 6, 2, types.ContentPerson, 125)

	f.runTo(200)

	if !f.progression.IsGameOver || !f.progression.HitBarrier {
		t.Fatalf("barrier should end the game: %+v", f.progression)
	}
	z := f.trolley.Position().Z
	if z > 110+f.cfg.Collision.TrolleyHalfDepth+f.cfg.Collision.BarrierRadius+1 {
		t.Errorf("game ended too late at z=%v", z)
	}

	// 游戏结束后不再检测
	f.trolley.Update(3)
	f.collision.Update(3)
	if f.progression.PeopleHit != 0 || f.progression.Score != 0 {
		t.Errorf("progression changed after game over: hit=%d score=%d",
			f.progression.PeopleHit, f.progression.Score)
	}
}

// 大步长时包围盒沿 Z 扫掠，不会穿过行人
func TestSweptCollisionOnLargeStep(t *testing.T) {
	f := newCollisionFixture(t)
	f.place(t, 5, 2, types.ContentPerson, 115)

	f.trolley.state.Position.Z = 100
	f.collision.Update(0)

	f.trolley.Update(3) // z: 100 -> 130
	f.collision.Update(3)

	if f.progression.PeopleHit != 1 {
		t.Errorf("PeopleHit = %d, want 1", f.progression.PeopleHit)
	}
}

// 一步跨过多个段时，扫掠经过的所有段都参与检测
func TestSweptCollisionAcrossSegments(t *testing.T) {
	tests := []struct {
		name        string
		contentType types.ContentType
		wantHit     int
		wantOver    bool
	}{
		{name: "行人", contentType: types.ContentPerson, wantHit: 1},
		{name: "障碍物", contentType: types.ContentRock, wantOver: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCollisionFixture(t)
			f.place(t, 5, 2, tt.contentType, 104)

			f.trolley.state.Position.Z = 100
			f.collision.Update(0)

			f.trolley.SetSpeed(45)
			f.trolley.Update(1) // z: 100 -> 145，跨过 5、6 两段
			f.collision.Update(1)

			if f.progression.PeopleHit != tt.wantHit {
				t.Errorf("PeopleHit = %d, want %d", f.progression.PeopleHit, tt.wantHit)
			}
			if f.progression.IsGameOver != tt.wantOver {
				t.Errorf("IsGameOver = %v, want %v", f.progression.IsGameOver, tt.wantOver)
			}
			if f.progression.PeopleAvoided != 0 {
				t.Errorf("PeopleAvoided = %d, want 0", f.progression.PeopleAvoided)
			}
		})
	}
}

// 相邻轨道上的内容不会被撞到
func TestAdjacentTrackNotHit(t *testing.T) {
	f := newCollisionFixture(t)
	f.place(t, 5, 3, types.ContentPerson, 110)
	f.place(t, 5, 1, types.ContentBuffer, 112)

	f.runTo(125)
	if f.progression.PeopleHit != 0 || f.progression.IsGameOver {
		t.Errorf("hit adjacent track content: hit=%d gameOver=%v", f.progression.PeopleHit, f.progression.IsGameOver)
	}
	if f.progression.PeopleAvoided != 0 || f.progression.Score != 0 {
		t.Errorf("avoided=%d score=%d, want 0/0", f.progression.PeopleAvoided, f.progression.Score)
	}
}

// 只有电车占用过的轨道上未撞到的行人计入避开
func TestAvoidedCountsOccupiedTracksOnly(t *testing.T) {
	tests := []struct {
		name        string
		switchTo    int // 0 表示不换轨
		wantAvoided int
	}{
		{name: "停在中间轨道", switchTo: 0, wantAvoided: 0},
		{name: "段内换到 4 号轨道", switchTo: 4, wantAvoided: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCollisionFixture(t)
			// 4 号轨道的行人在换轨完成前已被越过
			f.place(t, 5, 3, types.ContentPerson, 102)
			f.place(t, 5, 0, types.ContentPerson, 110)
			f.place(t, 5, 4, types.ContentPerson, 112)

			f.runTo(100)
			if tt.switchTo != 0 {
				if err := f.trolley.SwitchToTrack(tt.switchTo); err != nil {
					t.Fatalf("SwitchToTrack error: %v", err)
				}
			}
			f.runTo(121)

			if f.progression.PeopleHit != 0 {
				t.Fatalf("PeopleHit = %d, want 0", f.progression.PeopleHit)
			}
			if f.progression.PeopleAvoided != tt.wantAvoided || f.progression.Score != tt.wantAvoided {
				t.Errorf("avoided=%d score=%d, want %d/%d",
					f.progression.PeopleAvoided, f.progression.Score, tt.wantAvoided, tt.wantAvoided)
			}
		})
	}
}

func TestCollisionReset(t *testing.T) {
	f := newCollisionFixture(t)
	f.runTo(50)
	if f.collision.CompletedSegments() != 2 {
		t.Fatalf("CompletedSegments = %d, want 2", f.collision.CompletedSegments())
	}

	f.collision.Reset()
	if f.collision.CompletedSegments() != 0 {
		t.Errorf("CompletedSegments after reset = %d", f.collision.CompletedSegments())
	}
}
