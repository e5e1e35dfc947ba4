package systems

import (
	"math"

	"github.com/gonewx/trolley/pkg/config"
)

// DifficultyEngine 难度引擎
// 根据行驶进度计算障碍物数量和速度倍率，为内容规则系统和电车运动系统提供难度数据
type DifficultyEngine struct {
	cfg *config.TrolleyConfig
}

// NewDifficultyEngine 创建新的难度引擎实例
func NewDifficultyEngine(cfg *config.TrolleyConfig) *DifficultyEngine {
	return &DifficultyEngine{
		cfg: cfg,
	}
}

// BarrierCount 计算区间的障碍物数量
// 规则:
//
//	sectionIndex < barrierStartThresholdDistance          → 0
//	barrierStart <= sectionIndex < highBarrierThreshold   → 1
//	sectionIndex >= highBarrierThresholdDistance          → 2
//
// 结果不超过轨道数量减 1，保证至少留出一条可通行轨道。
func (d *DifficultyEngine) BarrierCount(sectionIndex int) int {
	count := 0
	switch {
	case sectionIndex >= d.cfg.Content.HighBarrierThresholdDistance:
		count = 2
	case sectionIndex >= d.cfg.Content.BarrierStartThresholdDistance:
		count = 1
	}
	if maxCount := d.cfg.TrackCount - 1; count > maxCount {
		count = maxCount
	}
	if count < 0 {
		count = 0
	}
	return count
}

// GrowthFactor 返回当前递增节奏的单步倍率
func (d *DifficultyEngine) GrowthFactor() float64 {
	if d.cfg.Speed.Cadence == config.CadenceSection {
		return d.cfg.Speed.SectionGrowthFactor
	}
	return d.cfg.Speed.SegmentGrowthFactor
}

// MaxSpeed 返回速度上限
// 未设置倍率上限时返回 +Inf
func (d *DifficultyEngine) MaxSpeed(baseSpeed float64) float64 {
	if d.cfg.Speed.MaxSpeedMultiplier <= 0 {
		return math.Inf(1)
	}
	return baseSpeed * d.cfg.Speed.MaxSpeedMultiplier
}

// SpeedMultiplier 计算当前速度相对初始速度的倍率
// 初始速度为 0 时倍率视为 1
func (d *DifficultyEngine) SpeedMultiplier(speed, baseSpeed float64) float64 {
	if baseSpeed <= 0 {
		return 1
	}
	return speed / baseSpeed
}

// IsHighSpeed 判断倍率是否已越过高速阈值
func (d *DifficultyEngine) IsHighSpeed(speed, baseSpeed float64) bool {
	return d.SpeedMultiplier(speed, baseSpeed) >= d.cfg.Speed.BarrierIncreaseThreshold
}

// StepsToHighSpeed 计算按当前节奏到达高速阈值所需的递增次数
// 倍率为 1 时永远无法到达，返回 -1
func (d *DifficultyEngine) StepsToHighSpeed() int {
	factor := d.GrowthFactor()
	threshold := d.cfg.Speed.BarrierIncreaseThreshold
	if threshold <= 1 {
		return 0
	}
	if factor <= 1 {
		return -1
	}
	return int(math.Ceil(math.Log(threshold) / math.Log(factor)))
}
