// Package app 提供 ebiten 桌面前端
//
// 该包把无头的对局会话包装成 ebiten.Game：键盘输入翻译为指令，
// 场景登记表中的对象以俯视方式绘制，进度通过 gdata 保存。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/game"
	"github.com/gonewx/trolley/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// isKeyJustPressed 运行时的按键读取
var isKeyJustPressed = inpututil.IsKeyJustPressed

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 玩法配置文件路径，为空则使用嵌入的默认配置
	ConfigPath string
	// Seed 覆盖配置中的随机种子（0 表示不覆盖）
	Seed int64
	// Autopilot 由自动驾驶代替玩家选择轨道
	Autopilot bool
}

// App 游戏应用包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *SceneManager
	store                    *game.StateStore
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	trolleyConfig, err := loadConfig(cfg)
	if err != nil {
		return nil, err
	}

	store := game.NewStateStore(game.OpenStorage(""), game.PersistedRecord{})
	last := store.Load()
	if last.RunID != "" {
		log.Printf("[App] Last run %s: score=%d, gameOver=%v, best=%d",
			last.RunID, last.Score, last.IsGameOver, store.BestScore())
	}

	sceneManager := NewSceneManager()
	sceneManager.SetSceneFactory(func() (Scene, error) {
		return NewPlayScene(trolleyConfig, PlaySceneOptions{
			Store:     store,
			Random:    utils.NewRandomSource(trolleyConfig.RandomSeed),
			Autopilot: cfg.Autopilot,
		})
	})
	if err := sceneManager.NewRun(); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return &App{
		sceneManager: sceneManager,
		store:        store,
		verbose:      cfg.Verbose,
	}, nil
}

// loadConfig 加载玩法配置并应用命令行覆盖
func loadConfig(cfg Config) (*config.TrolleyConfig, error) {
	var (
		trolleyConfig *config.TrolleyConfig
		err           error
	)
	if cfg.ConfigPath != "" {
		trolleyConfig, err = config.LoadTrolleyConfig(cfg.ConfigPath)
	} else {
		trolleyConfig, err = config.LoadEmbeddedTrolleyConfig()
	}
	if err != nil {
		return nil, err
	}

	if cfg.Seed != 0 {
		trolleyConfig.RandomSeed = cfg.Seed
	}
	log.Printf("[Config] Loaded trolley config (tracks=%d, segmentLength=%.1f, seed=%d)",
		trolleyConfig.TrackCount, trolleyConfig.SegmentLength, trolleyConfig.RandomSeed)
	return trolleyConfig, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	return a.sceneManager.Update(deltaTime)
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Shutdown 退出前保存当前场景的进度
func (a *App) Shutdown() {
	if !a.sceneManager.SaveOnExit() {
		log.Printf("[App] WARNING: progress was not saved")
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
