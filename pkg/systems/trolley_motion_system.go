package systems

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/golang/geo/r3"
	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/utils"
)

// ErrInvalidTrackIndex 轨道编号超出 [1, TrackCount]
var ErrInvalidTrackIndex = errors.New("invalid track index")

// TrolleyMotionSystem 电车运动与换轨状态机
//
// 状态：
//   - Straight: 直行，IsTransitioning = false
//   - Transitioning: 横向插值中，进度 0..1
//
// 前进方向 Z 每帧增加 speed * deltaTime；换轨时横向 X 按 smoothstep 缓动插值，
// 进度到达 1 时才整体切换 CurrentTrack。
type TrolleyMotionSystem struct {
	cfg        *config.TrolleyConfig
	difficulty *DifficultyEngine
	state      *components.TrolleyState
}

// NewTrolleyMotionSystem 创建电车运动系统，电车停在中间轨道、Z=0
func NewTrolleyMotionSystem(cfg *config.TrolleyConfig, difficulty *DifficultyEngine) *TrolleyMotionSystem {
	s := &TrolleyMotionSystem{
		cfg:        cfg,
		difficulty: difficulty,
	}
	s.Reset()
	return s
}

// Reset 回到初始状态
func (s *TrolleyMotionSystem) Reset() {
	center := s.cfg.CenterTrack()
	x := s.trackX(center)
	s.state = &components.TrolleyState{
		CurrentTrack: center,
		TargetTrack:  center,
		Position:     r3.Vector{X: x, Y: 0, Z: 0},
		Speed:        s.cfg.BaseSpeed,
		BaseSpeed:    s.cfg.BaseSpeed,
		StartX:       x,
		EndX:         x,
	}
}

// State 返回电车状态（只读使用）
func (s *TrolleyMotionSystem) State() *components.TrolleyState {
	return s.state
}

// Position 返回电车当前位置
func (s *TrolleyMotionSystem) Position() r3.Vector {
	return s.state.Position
}

// CurrentTrack 返回当前轨道编号（从 1 开始）
func (s *TrolleyMotionSystem) CurrentTrack() int {
	return s.state.CurrentTrack
}

// TargetTrack 返回目标轨道编号
func (s *TrolleyMotionSystem) TargetTrack() int {
	return s.state.TargetTrack
}

// validTrack 检查轨道编号，非法时记录警告
func (s *TrolleyMotionSystem) validTrack(n int) error {
	if n < 1 || n > s.cfg.TrackCount {
		log.Printf("[Trolley] WARNING: invalid track %d (valid 1-%d)", n, s.cfg.TrackCount)
		return fmt.Errorf("%w: %d", ErrInvalidTrackIndex, n)
	}
	return nil
}

// trackX 返回轨道编号对应的横向 X（不做校验）
func (s *TrolleyMotionSystem) trackX(n int) float64 {
	return s.cfg.LaneX(n-1, s.cfg.TrackCount)
}

// GetTrackPosition 返回轨道编号对应的横向 X
// 布局以 X=0 为中心对称
func (s *TrolleyMotionSystem) GetTrackPosition(n int) (float64, error) {
	if err := s.validTrack(n); err != nil {
		return 0, err
	}
	return s.trackX(n), nil
}

// SwitchToTrack 开始换轨
//
// 非法编号记录警告并返回 ErrInvalidTrackIndex，状态不变。
// 换轨途中再次调用会放弃当前换轨，从当前横向位置重新开始。
func (s *TrolleyMotionSystem) SwitchToTrack(n int) error {
	if err := s.validTrack(n); err != nil {
		return err
	}

	st := s.state
	if !st.IsTransitioning && n == st.CurrentTrack {
		return nil
	}
	if st.IsTransitioning && n == st.TargetTrack {
		return nil
	}

	st.TargetTrack = n
	st.IsTransitioning = true
	st.TransitionProgress = 0
	st.StartX = st.Position.X
	st.EndX = s.trackX(n)

	ahead := st.Speed * s.cfg.TransitionDuration
	p0 := st.Position
	st.Curve = components.TransitionCurve{
		P0: p0,
		P1: r3.Vector{X: st.StartX, Y: p0.Y, Z: p0.Z + ahead/3},
		P2: r3.Vector{X: st.EndX, Y: p0.Y, Z: p0.Z + 2*ahead/3},
		P3: r3.Vector{X: st.EndX, Y: p0.Y, Z: p0.Z + ahead},
	}

	log.Printf("[Trolley] Switching track %d -> %d at z=%.2f", st.CurrentTrack, n, p0.Z)
	return nil
}

// Update 推进电车
//
// 参数：
//
//	deltaTime - 自上一帧以来经过的时间（秒），允许为负（测试用，向后移动）
func (s *TrolleyMotionSystem) Update(deltaTime float64) {
	st := s.state
	st.Position.Z += st.Speed * deltaTime

	if !st.IsTransitioning {
		return
	}

	st.TransitionProgress = utils.Clamp01(st.TransitionProgress + deltaTime/s.cfg.TransitionDuration)
	st.Position.X = utils.Lerp(st.StartX, st.EndX, utils.EaseSmoothstep(st.TransitionProgress))

	if st.TransitionProgress >= 1 {
		st.Position.X = st.EndX
		st.CurrentTrack = st.TargetTrack
		st.IsTransitioning = false
		log.Printf("[Trolley] Arrived at track %d (x=%.2f)", st.CurrentTrack, st.Position.X)
	}
}

// IncreaseSpeed 按每段倍率递增速度，并计数一个通过的段
func (s *TrolleyMotionSystem) IncreaseSpeed() {
	s.state.SegmentsPassed++
	s.applyGrowth(s.cfg.Speed.SegmentGrowthFactor)
}

// IncreaseSpeedPerSection 按每区间倍率递增速度，并计数一个通过的区间
func (s *TrolleyMotionSystem) IncreaseSpeedPerSection() {
	s.state.SectionsPassed++
	s.applyGrowth(s.cfg.Speed.SectionGrowthFactor)
}

// applyGrowth 复利递增并应用速度上限
func (s *TrolleyMotionSystem) applyGrowth(factor float64) {
	st := s.state
	st.Speed = math.Min(st.Speed*factor, s.difficulty.MaxSpeed(st.BaseSpeed))
}

// IsHighSpeed 速度倍率是否已越过高速阈值
func (s *TrolleyMotionSystem) IsHighSpeed() bool {
	return s.difficulty.IsHighSpeed(s.state.Speed, s.state.BaseSpeed)
}

// SpeedMultiplier 当前速度相对初始速度的倍率
func (s *TrolleyMotionSystem) SpeedMultiplier() float64 {
	return s.difficulty.SpeedMultiplier(s.state.Speed, s.state.BaseSpeed)
}

// SetSpeed 设置速度（负数按 0 处理）
func (s *TrolleyMotionSystem) SetSpeed(v float64) {
	if v < 0 {
		v = 0
	}
	s.state.Speed = v
}

// Speed 返回当前速度
func (s *TrolleyMotionSystem) Speed() float64 {
	return s.state.Speed
}
