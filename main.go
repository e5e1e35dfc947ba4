package main

import (
	"errors"
	"flag"
	"log"

	"github.com/gonewx/trolley/pkg/app"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "玩法配置文件路径（默认使用嵌入的 data/trolley.yaml）")
	seed := flag.Int64("seed", 0, "内容生成随机种子（0 表示使用配置中的值）")
	autopilot := flag.Bool("autopilot", false, "由自动驾驶选择轨道")
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Seed:       *seed,
		Autopilot:  *autopilot,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Trolley Runner")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	err = ebiten.RunGame(gameApp)
	gameApp.Shutdown()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
