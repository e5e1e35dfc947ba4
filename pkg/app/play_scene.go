package app

import (
	"errors"
	"log"

	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/game"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/gonewx/trolley/pkg/systems"
	"github.com/gonewx/trolley/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// PlayScene 对局画面
//
// 把键盘输入翻译成指令交给会话，游戏结束和退出时通过 StateStore 保存进度。
type PlayScene struct {
	session   *scenes.GameScene
	registry  *systems.SceneRegistry
	renderer  *Renderer
	store     *game.StateStore
	readInput func() []scenes.Command
}

// PlaySceneOptions 创建对局画面的参数
type PlaySceneOptions struct {
	Store     *game.StateStore
	Random    utils.RandomSource
	Autopilot bool

	// ReadInput 返回本帧的指令，nil 时读取键盘和触摸
	ReadInput func() []scenes.Command
}

// NewPlayScene 创建对局画面
func NewPlayScene(cfg *config.TrolleyConfig, opts PlaySceneOptions) (*PlayScene, error) {
	p := &PlayScene{
		registry:  systems.NewSceneRegistry(),
		store:     opts.Store,
		readInput: opts.ReadInput,
	}
	if p.store == nil {
		p.store = game.NewStateStore(nil, game.PersistedRecord{})
	}
	if p.readInput == nil {
		p.readInput = func() []scenes.Command {
			return append(ReadCommands(isKeyJustPressed, cfg.TrackCount), readTouchCommands()...)
		}
	}
	p.renderer = NewRenderer(p.registry)

	session, err := scenes.NewGameScene(cfg, scenes.Options{
		Scene:      p.registry,
		Random:     opts.Random,
		Autopilot:  opts.Autopilot,
		OnGameOver: p.persist,
	})
	if err != nil {
		return nil, err
	}
	p.session = session
	return p, nil
}

// Update 处理输入并推进会话
// 请求退出时返回 ebiten.Termination
func (p *PlayScene) Update(deltaTime float64) error {
	for _, cmd := range p.readInput() {
		if err := p.session.Apply(cmd); err != nil {
			if errors.Is(err, scenes.ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return p.session.Update(deltaTime)
}

// Draw 绘制当前画面
func (p *PlayScene) Draw(screen *ebiten.Image) {
	p.renderer.Draw(screen, p.session, p.store.BestScore())
}

// SaveOnExit 实现 Saveable，保存当前进度
func (p *PlayScene) SaveOnExit() bool {
	rec := p.session.Snapshot()
	if err := p.store.Save(rec); err != nil {
		log.Printf("[PlayScene] ERROR: save on exit failed: %v", err)
		return false
	}
	return true
}

// Session 返回对局会话
func (p *PlayScene) Session() *scenes.GameScene {
	return p.session
}

// persist 游戏结束时保存记录并提交最佳成绩
func (p *PlayScene) persist(rec game.PersistedRecord) {
	if err := p.store.Save(rec); err != nil {
		log.Printf("[PlayScene] ERROR: %v", err)
	}
	if updated, err := p.store.RecordBest(rec); err != nil {
		log.Printf("[PlayScene] ERROR: %v", err)
	} else if updated {
		log.Printf("[PlayScene] New best score: %d", rec.Score)
	}
}
