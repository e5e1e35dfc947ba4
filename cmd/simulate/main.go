// simulate 无头批量模拟：自动驾驶跑多局并输出成绩统计
//
// 用法：
//
//	go run ./cmd/simulate -runs 100 -seed 1
//	go run ./cmd/simulate -config data/trolley.yaml -max-seconds 600 -verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/gonewx/trolley/pkg/utils"
)

const frameTime = 1.0 / 60

func main() {
	runs := flag.Int("runs", 50, "模拟局数")
	seed := flag.Int64("seed", 1, "第一局的随机种子，之后每局加 1")
	maxSeconds := flag.Float64("max-seconds", 300, "单局最长模拟时间（秒）")
	configPath := flag.String("config", "", "玩法配置文件路径（默认使用内置配置）")
	verbose := flag.Bool("verbose", false, "输出详细日志")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadTrolleyConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	maxFrames := int(*maxSeconds / frameTime)
	results := make([]RunResult, 0, *runs)
	for i := 0; i < *runs; i++ {
		result, err := simulate(cfg, *seed+int64(i), maxFrames)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: run %d: %v\n", i, err)
			os.Exit(1)
		}
		results = append(results, result)
	}

	Summarize(results).Print(os.Stdout)
}

// simulate 以自动驾驶跑一局，直到撞上障碍物或达到帧数上限
func simulate(cfg *config.TrolleyConfig, seed int64, maxFrames int) (RunResult, error) {
	session, err := scenes.NewGameScene(cfg, scenes.Options{
		Random:    utils.NewRandomSource(seed),
		Autopilot: true,
	})
	if err != nil {
		return RunResult{}, err
	}

	frames := 0
	for ; frames < maxFrames && !session.Progression().IsGameOver; frames++ {
		if err := session.Update(frameTime); err != nil {
			return RunResult{}, err
		}
	}

	p := session.Progression()
	return RunResult{
		Seed:          seed,
		Score:         p.Score,
		PeopleHit:     p.PeopleHit,
		PeopleAvoided: p.PeopleAvoided,
		Distance:      p.Distance,
		Segments:      p.CurrentSegment,
		HitBarrier:    p.HitBarrier,
		Frames:        frames,
	}, nil
}
