// validate-config 校验玩法配置文件并打印推导出的参数
//
// 用法：
//
//	go run ./cmd/validate-config data/trolley.yaml
package main

import (
	"fmt"
	"os"

	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/systems"
)

func main() {
	path := config.DefaultConfigPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.LoadTrolleyConfig(path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ %s 格式正确\n", path)

	difficulty := systems.NewDifficultyEngine(cfg)
	fmt.Printf("   轨道数量: %d (开局单轨段: %d)\n", cfg.TrackCount, cfg.SingleTrackSegmentCount)
	fmt.Printf("   段长度: %.1f, 区间长度: %.1f\n", cfg.SegmentLength, cfg.SectionLength())

	start, end := cfg.PlacementWindow(1)
	fmt.Printf("   区间 1 放置窗口: [%.1f, %.1f)\n", start, end)

	fmt.Printf("   速度节奏: %s, 单步倍率: %.4f\n", cfg.Speed.Cadence, difficulty.GrowthFactor())
	if steps := difficulty.StepsToHighSpeed(); steps >= 0 {
		fmt.Printf("   %d 步后进入高速（倍率 > %.2f）\n", steps, cfg.Speed.BarrierIncreaseThreshold)
	} else {
		fmt.Printf("   ⚠️ 速度不会增长，永远不会进入高速\n")
	}

	for _, section := range []int{0, cfg.Content.BarrierStartThresholdDistance, cfg.Content.HighBarrierThresholdDistance} {
		fmt.Printf("   区间 %d 障碍物数量: %d\n", section, difficulty.BarrierCount(section))
	}
}
