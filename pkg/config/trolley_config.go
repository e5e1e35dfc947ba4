package config

import (
	"fmt"
	"log"
	"os"

	"github.com/gonewx/trolley/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath 默认配置在嵌入资源中的路径
const DefaultConfigPath = "data/trolley.yaml"

// SpeedCadence 速度递增节奏
type SpeedCadence string

const (
	// CadenceSegment 每通过一个轨道段递增一次
	CadenceSegment SpeedCadence = "segment"
	// CadenceSection 每通过一个区间递增一次
	CadenceSection SpeedCadence = "section"
)

// TrolleyConfig 电车游戏核心配置
//
// 所有参数都由外部注入（YAML 文件或 DefaultConfig），核心逻辑中不写死数值。
//
// 配置文件位置: data/trolley.yaml
type TrolleyConfig struct {
	// TrackCount 多轨道段的轨道数量（如 5）
	TrackCount int `yaml:"trackCount"`

	// TrackWidth 相邻轨道的横向间距（世界单位）
	TrackWidth float64 `yaml:"trackWidth"`

	// SegmentLength 单个轨道段沿前进方向的长度
	SegmentLength float64 `yaml:"segmentLength"`

	// SingleTrackSegmentCount 开局单轨段数量，之后切换为多轨
	SingleTrackSegmentCount int `yaml:"singleTrackSegmentCount"`

	// BaseSpeed 初始速度（世界单位/秒）
	BaseSpeed float64 `yaml:"baseSpeed"`

	// TransitionDuration 横向换轨持续时间（秒）
	TransitionDuration float64 `yaml:"transitionDuration"`

	// SectionEpsilon 区间边界判定容差，吸收浮点累积误差
	SectionEpsilon float64 `yaml:"sectionEpsilon"`

	// RandomSeed 内容生成随机种子，0 表示按时间取种
	RandomSeed int64 `yaml:"randomSeed"`

	Speed      SpeedConfig      `yaml:"speed"`
	Content    ContentConfig    `yaml:"content"`
	Generation GenerationConfig `yaml:"generation"`
	Collision  CollisionConfig  `yaml:"collision"`
}

// SpeedConfig 速度递增配置
type SpeedConfig struct {
	Cadence                  SpeedCadence `yaml:"cadence"`                  // 生效的递增节奏
	SegmentGrowthFactor      float64      `yaml:"segmentGrowthFactor"`      // 每段递增倍率（如 1.0103）
	SectionGrowthFactor      float64      `yaml:"sectionGrowthFactor"`      // 每区间递增倍率（如 1.25）
	MaxSpeedMultiplier       float64      `yaml:"maxSpeedMultiplier"`       // 相对 BaseSpeed 的倍率上限，0 表示不设上限
	BarrierIncreaseThreshold float64      `yaml:"barrierIncreaseThreshold"` // 倍率超过此值视为高速
}

// ContentConfig 行人与障碍物生成规则配置
type ContentConfig struct {
	MinPeoplePerTrack int `yaml:"minPeoplePerTrack"`
	MaxPeoplePerTrack int `yaml:"maxPeoplePerTrack"`

	// LightTrackChance 每个区间挑选一条"轻载"轨道（人数取下限附近）的概率
	LightTrackChance float64 `yaml:"lightTrackChance"`

	// BarrierStartThresholdDistance 从该区间编号起每区间 1 个障碍物
	BarrierStartThresholdDistance int `yaml:"barrierStartThresholdDistance"`

	// HighBarrierThresholdDistance 从该区间编号起每区间 2 个障碍物
	HighBarrierThresholdDistance int `yaml:"highBarrierThresholdDistance"`

	// PlacementWindowStart/End 内容放置窗口（区间长度的比例）
	PlacementWindowStart float64 `yaml:"placementWindowStart"`
	PlacementWindowEnd   float64 `yaml:"placementWindowEnd"`
}

// GenerationConfig 轨道段生成与回收配置
type GenerationConfig struct {
	ViewDistance       float64 `yaml:"viewDistance"`       // 可见距离，超出则标记为不可见
	MinLookahead       int     `yaml:"minLookahead"`       // 前瞻窗口起点（相对当前段）
	MaxVisibleSegments int     `yaml:"maxVisibleSegments"` // 前瞻窗口终点（相对当前段）
	CleanupDistance    float64 `yaml:"cleanupDistance"`    // 段尾落后电车超过此距离即回收
}

// CollisionConfig 碰撞体尺寸配置（X/Z 平面上的轴对齐包围盒半径）
type CollisionConfig struct {
	TrolleyHalfWidth float64 `yaml:"trolleyHalfWidth"`
	TrolleyHalfDepth float64 `yaml:"trolleyHalfDepth"`
	PersonRadius     float64 `yaml:"personRadius"`
	BarrierRadius    float64 `yaml:"barrierRadius"`
}

// DefaultConfig 返回默认配置
// 与 data/trolley.yaml 保持一致
func DefaultConfig() *TrolleyConfig {
	return &TrolleyConfig{
		TrackCount:              5,
		TrackWidth:              2.5,
		SegmentLength:           20,
		SingleTrackSegmentCount: 3,
		BaseSpeed:               10,
		TransitionDuration:      1.0,
		SectionEpsilon:          1e-3,
		RandomSeed:              0,
		Speed: SpeedConfig{
			Cadence:                  CadenceSegment,
			SegmentGrowthFactor:      1.0103,
			SectionGrowthFactor:      1.25,
			MaxSpeedMultiplier:       7,
			BarrierIncreaseThreshold: 2.0,
		},
		Content: ContentConfig{
			MinPeoplePerTrack:             1,
			MaxPeoplePerTrack:             5,
			LightTrackChance:              0.85,
			BarrierStartThresholdDistance: 5,
			HighBarrierThresholdDistance:  20,
			PlacementWindowStart:          0.15,
			PlacementWindowEnd:            0.65,
		},
		Generation: GenerationConfig{
			ViewDistance:       200,
			MinLookahead:       0,
			MaxVisibleSegments: 10,
			CleanupDistance:    60,
		},
		Collision: CollisionConfig{
			TrolleyHalfWidth: 0.9,
			TrolleyHalfDepth: 1.5,
			PersonRadius:     0.35,
			BarrierRadius:    0.9,
		},
	}
}

// LoadTrolleyConfig 从 YAML 文件加载配置
//
// 未出现在文件中的字段保留 DefaultConfig 的值。
//
// 参数:
//   - path: 配置文件路径（如 "data/trolley.yaml"）
//
// 返回:
//   - *TrolleyConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadTrolleyConfig(path string) (*TrolleyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trolley config: %w", err)
	}
	return ParseTrolleyConfig(data)
}

// LoadEmbeddedTrolleyConfig 加载嵌入的默认配置
//
// embedded 包未初始化时（如单元测试）直接返回 DefaultConfig。
func LoadEmbeddedTrolleyConfig() (*TrolleyConfig, error) {
	if !embedded.IsInitialized() {
		log.Printf("[Config] embedded data not initialized, using built-in defaults")
		return DefaultConfig(), nil
	}

	data, err := embedded.ReadFile(DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trolley config: %w", err)
	}
	return ParseTrolleyConfig(data)
}

// ParseTrolleyConfig 解析 YAML 配置内容
func ParseTrolleyConfig(data []byte) (*TrolleyConfig, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse trolley config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trolley config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
func (c *TrolleyConfig) Validate() error {
	if c.TrackCount < 1 {
		return fmt.Errorf("trackCount must be >= 1, got %d", c.TrackCount)
	}
	if c.TrackWidth <= 0 {
		return fmt.Errorf("trackWidth must be > 0, got %.3f", c.TrackWidth)
	}
	if c.SegmentLength <= 0 {
		return fmt.Errorf("segmentLength must be > 0, got %.3f", c.SegmentLength)
	}
	if c.SingleTrackSegmentCount < 0 {
		return fmt.Errorf("singleTrackSegmentCount must be >= 0, got %d", c.SingleTrackSegmentCount)
	}
	if c.BaseSpeed < 0 {
		return fmt.Errorf("baseSpeed must be >= 0, got %.3f", c.BaseSpeed)
	}
	if c.TransitionDuration <= 0 {
		return fmt.Errorf("transitionDuration must be > 0, got %.3f", c.TransitionDuration)
	}
	if c.SectionEpsilon < 0 {
		return fmt.Errorf("sectionEpsilon must be >= 0, got %g", c.SectionEpsilon)
	}

	// 速度
	switch c.Speed.Cadence {
	case CadenceSegment, CadenceSection:
	default:
		return fmt.Errorf("speed.cadence must be %q or %q, got %q", CadenceSegment, CadenceSection, c.Speed.Cadence)
	}
	if c.Speed.SegmentGrowthFactor < 1 {
		return fmt.Errorf("speed.segmentGrowthFactor must be >= 1, got %.4f", c.Speed.SegmentGrowthFactor)
	}
	if c.Speed.SectionGrowthFactor < 1 {
		return fmt.Errorf("speed.sectionGrowthFactor must be >= 1, got %.4f", c.Speed.SectionGrowthFactor)
	}
	if c.Speed.MaxSpeedMultiplier != 0 && c.Speed.MaxSpeedMultiplier < 1 {
		return fmt.Errorf("speed.maxSpeedMultiplier must be 0 or >= 1, got %.3f", c.Speed.MaxSpeedMultiplier)
	}

	// 内容
	if c.Content.MinPeoplePerTrack < 1 {
		return fmt.Errorf("content.minPeoplePerTrack must be >= 1, got %d", c.Content.MinPeoplePerTrack)
	}
	if c.Content.MaxPeoplePerTrack < c.Content.MinPeoplePerTrack {
		return fmt.Errorf("content.maxPeoplePerTrack(%d) < minPeoplePerTrack(%d)",
			c.Content.MaxPeoplePerTrack, c.Content.MinPeoplePerTrack)
	}
	if c.Content.LightTrackChance < 0 || c.Content.LightTrackChance > 1 {
		return fmt.Errorf("content.lightTrackChance must be in [0, 1], got %.3f", c.Content.LightTrackChance)
	}
	if c.Content.BarrierStartThresholdDistance < 0 {
		return fmt.Errorf("content.barrierStartThresholdDistance must be >= 0, got %d", c.Content.BarrierStartThresholdDistance)
	}
	if c.Content.HighBarrierThresholdDistance < c.Content.BarrierStartThresholdDistance {
		return fmt.Errorf("content.highBarrierThresholdDistance(%d) < barrierStartThresholdDistance(%d)",
			c.Content.HighBarrierThresholdDistance, c.Content.BarrierStartThresholdDistance)
	}
	if c.Content.PlacementWindowStart < 0 || c.Content.PlacementWindowEnd > 1 ||
		c.Content.PlacementWindowStart >= c.Content.PlacementWindowEnd {
		return fmt.Errorf("content placement window invalid: start(%.3f) end(%.3f)",
			c.Content.PlacementWindowStart, c.Content.PlacementWindowEnd)
	}

	// 生成
	if c.Generation.ViewDistance <= 0 {
		return fmt.Errorf("generation.viewDistance must be > 0, got %.3f", c.Generation.ViewDistance)
	}
	if c.Generation.MinLookahead < 0 {
		return fmt.Errorf("generation.minLookahead must be >= 0, got %d", c.Generation.MinLookahead)
	}
	if c.Generation.MaxVisibleSegments < c.Generation.MinLookahead {
		return fmt.Errorf("generation.maxVisibleSegments(%d) < minLookahead(%d)",
			c.Generation.MaxVisibleSegments, c.Generation.MinLookahead)
	}
	if c.Generation.CleanupDistance <= 0 {
		return fmt.Errorf("generation.cleanupDistance must be > 0, got %.3f", c.Generation.CleanupDistance)
	}

	// 碰撞体
	if c.Collision.TrolleyHalfWidth <= 0 || c.Collision.TrolleyHalfDepth <= 0 ||
		c.Collision.PersonRadius <= 0 || c.Collision.BarrierRadius <= 0 {
		return fmt.Errorf("collision sizes must be > 0")
	}

	return nil
}

// Clone 返回配置的深拷贝（配置只包含值类型字段）
func (c *TrolleyConfig) Clone() *TrolleyConfig {
	cp := *c
	return &cp
}
