// trolley-tui 终端前端
//
// 用法：
//
//	go run ./cmd/trolley-tui
//	go run ./cmd/trolley-tui -config data/trolley.yaml -seed 42 -autopilot
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/game"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/gonewx/trolley/pkg/systems"
	"github.com/gonewx/trolley/pkg/utils"
)

const tickInterval = 16 * time.Millisecond // ~60 FPS

func main() {
	configPath := flag.String("config", "", "玩法配置文件路径（默认使用内置配置）")
	seed := flag.Int64("seed", 0, "内容生成随机种子（0 表示按时间取种）")
	autopilot := flag.Bool("autopilot", false, "由自动驾驶选择轨道")
	logPath := flag.String("log", "", "日志文件路径（默认丢弃日志）")
	flag.Parse()

	if err := run(*configPath, *seed, *autopilot, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, autopilot bool, logPath string) error {
	// 终端被占用，日志只能写文件
	log.SetOutput(io.Discard)
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadTrolleyConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if seed == 0 {
		seed = cfg.RandomSeed
	}

	store := game.NewStateStore(game.OpenStorage(""), game.PersistedRecord{})
	registry := systems.NewSceneRegistry()
	session, err := scenes.NewGameScene(cfg, scenes.Options{
		Scene:     registry,
		Random:    utils.NewRandomSource(seed),
		Autopilot: autopilot,
		OnGameOver: func(rec game.PersistedRecord) {
			if err := store.Save(rec); err != nil {
				log.Printf("[TUI] ERROR: %v", err)
			}
			if _, err := store.RecordBest(rec); err != nil {
				log.Printf("[TUI] ERROR: %v", err)
			}
		},
	})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	loopErr := loop(screen, registry, session, cfg)
	if err := store.Save(session.Snapshot()); err != nil {
		log.Printf("[TUI] ERROR: save on exit failed: %v", err)
	}
	return loopErr
}

// loop 事件与帧循环，按 q/Esc 退出
func loop(screen tcell.Screen, registry *systems.SceneRegistry, session *scenes.GameScene, cfg *config.TrolleyConfig) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				cmd, ok := commandForKey(ev, cfg.TrackCount)
				if !ok {
					continue
				}
				if err := session.Apply(cmd); err != nil {
					if errors.Is(err, scenes.ErrQuit) {
						return nil
					}
					return err
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			deltaTime := now.Sub(last).Seconds()
			last = now
			if err := session.Update(deltaTime); err != nil {
				return err
			}
			draw(screen, registry, session, cfg)
		}
	}
}
