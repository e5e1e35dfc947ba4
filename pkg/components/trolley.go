package components

import "github.com/golang/geo/r3"

// TrolleyState 电车运动状态
//
// CurrentTrack/TargetTrack 从 1 开始编号。
// CurrentTrack 只在换轨进度到达 1 的那一刻整体更新。
type TrolleyState struct {
	CurrentTrack int
	TargetTrack  int

	Position  r3.Vector // 只有 X（横向）和 Z（前进）参与逻辑
	Speed     float64   // 恒 >= 0
	BaseSpeed float64   // 初始速度，不可变

	IsTransitioning    bool
	TransitionProgress float64 // 0..1

	SegmentsPassed int
	SectionsPassed int

	// 换轨起止横坐标
	StartX float64
	EndX   float64

	// Curve 换轨时的前向曲线，仅供渲染预览
	Curve TransitionCurve
}

// TransitionCurve 三次贝塞尔曲线（P0 → P3）
type TransitionCurve struct {
	P0, P1, P2, P3 r3.Vector
}

// Point 返回参数 t ∈ [0, 1] 处的曲线点
func (c TransitionCurve) Point(t float64) r3.Vector {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	u := 1 - t
	p := c.P0.Mul(u * u * u)
	p = p.Add(c.P1.Mul(3 * u * u * t))
	p = p.Add(c.P2.Mul(3 * u * t * t))
	return p.Add(c.P3.Mul(t * t * t))
}
