package app

import (
	"errors"
	"testing"

	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/game"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/gonewx/trolley/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

// scriptedInput 按帧返回预设指令
type scriptedInput struct {
	frames map[int][]scenes.Command
	frame  int
}

func (s *scriptedInput) read() []scenes.Command {
	cmds := s.frames[s.frame]
	s.frame++
	return cmds
}

func openTestStore(t *testing.T) *game.StateStore {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	manager, err := gdata.Open(gdata.Config{AppName: "test_trolley_app"})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return game.NewStateStore(manager, game.PersistedRecord{})
}

func TestPlaySceneQuit(t *testing.T) {
	input := &scriptedInput{frames: map[int][]scenes.Command{
		3: {{Kind: scenes.CommandQuit}},
	}}
	p, err := NewPlayScene(config.DefaultConfig(), PlaySceneOptions{
		Random:    utils.NewRandomSource(1),
		ReadInput: input.read,
	})
	if err != nil {
		t.Fatalf("NewPlayScene() error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := p.Update(1.0 / 60); err != nil {
			t.Fatalf("frame %d: Update() error: %v", i, err)
		}
	}
	if err := p.Update(1.0 / 60); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update() after quit = %v, want ebiten.Termination", err)
	}
}

// 场景登记表与会话中的轨道、内容保持一致
func TestPlaySceneRegistryMatchesSession(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Content.BarrierStartThresholdDistance = 1 << 30
	cfg.Content.HighBarrierThresholdDistance = 1 << 30

	p, err := NewPlayScene(cfg, PlaySceneOptions{
		Random:    utils.NewRandomSource(3),
		Autopilot: true,
		ReadInput: func() []scenes.Command { return nil },
	})
	if err != nil {
		t.Fatalf("NewPlayScene() error: %v", err)
	}

	check := func(when string) {
		t.Helper()
		tracks := 0
		for _, seg := range p.Session().Segments() {
			tracks += len(seg.Tracks)
		}
		want := tracks + p.Session().ContentEntityCount()
		if p.registry.Len() != want {
			t.Errorf("%s: registry has %d objects, want %d", when, p.registry.Len(), want)
		}
	}

	for i := 0; i < 3000; i++ {
		if err := p.Update(1.0 / 60); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
	check("after run")

	if err := p.Session().Restart(); err != nil {
		t.Fatalf("Restart() error: %v", err)
	}
	check("after restart")
}

// 游戏结束时保存记录和最佳成绩，退出时保存当前进度
func TestPlaySceneSavesProgress(t *testing.T) {
	store := openTestStore(t)

	cfg := config.DefaultConfig()
	cfg.TrackCount = 3
	cfg.Content.BarrierStartThresholdDistance = 0
	cfg.Content.HighBarrierThresholdDistance = 0

	p, err := NewPlayScene(cfg, PlaySceneOptions{
		Store:     store,
		Random:    utils.NewRandomSource(9),
		ReadInput: func() []scenes.Command { return nil },
	})
	if err != nil {
		t.Fatalf("NewPlayScene() error: %v", err)
	}

	for i := 0; i < 200000 && !p.Session().Progression().IsGameOver; i++ {
		if err := p.Update(1.0 / 60); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
	if !p.Session().Progression().IsGameOver {
		t.Fatal("expected the run to end on a barrier")
	}

	saved := store.Load()
	if saved.RunID != p.Session().Progression().RunID.String() || !saved.HitBarrier {
		t.Errorf("saved record = %+v", saved)
	}
	if store.BestScore() != saved.Score {
		t.Errorf("BestScore() = %d, want %d", store.BestScore(), saved.Score)
	}

	if err := p.Session().Restart(); err != nil {
		t.Fatalf("Restart() error: %v", err)
	}
	if !p.SaveOnExit() {
		t.Fatal("SaveOnExit() failed")
	}
	if got := store.Load(); got.RunID != p.Session().Progression().RunID.String() || got.IsGameOver {
		t.Errorf("exit record = %+v, want fresh run", got)
	}
}
