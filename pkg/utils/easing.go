package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 输入越界时先钳制到 [0, 1]。
//
// 参考：https://easings.net/

// Clamp01 将值限制在 [0, 1] 范围内
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseSmoothstep 平滑阶梯缓动
// 特点：起止速度为 0，中段最快（换轨横移使用，避免匀速的机械感）
// 公式：f(t) = 3t² - 2t³
func EaseSmoothstep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
