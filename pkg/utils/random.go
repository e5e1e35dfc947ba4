package utils

import (
	"math/rand"
	"time"
)

// RandomSource 可注入的伪随机数源
//
// 内容生成通过该接口取随机数，测试中传入固定种子即可复现同一局。
type RandomSource interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

// NewRandomSource 创建随机数源
// seed 为 0 时按当前时间取种
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomRange 返回 [lo, hi] 内均匀分布的浮点数
func RandomRange(rng RandomSource, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// RandomIntRange 返回 [lo, hi] 内均匀分布的整数（含两端）
func RandomIntRange(rng RandomSource, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
