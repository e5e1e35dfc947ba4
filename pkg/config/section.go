package config

import "math"

// 区间（Section）与轨道段（Segment）的换算
//
// 区间长度固定为 2.5 个轨道段：SectionLength = SegmentLength * 5 / 2。
// 该比例不是整数，空尾规则和放置窗口都依赖它，因此所有"段 → 区间"的换算
// 都以"半段"为整数单位进行，不经过浮点除法。
const (
	// SectionHalfSegments 一个区间包含的半段数量（2.5 段 = 5 个半段）
	SectionHalfSegments = 5

	// EmptyTailHalfSegments 段起点在区间内偏移达到此值（2.0 段）即落入空尾
	EmptyTailHalfSegments = 4
)

// floorDiv 向下取整的整数除法（对负数同样正确）
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// SectionIndexForSegment 返回段起点所在的区间编号
// 公式: floor(startZ / sectionLength) = floor(2 * segmentID / 5)
func SectionIndexForSegment(segmentID int) int {
	return floorDiv(2*segmentID, SectionHalfSegments)
}

// SegmentOffsetHalves 返回段起点相对所在区间起点的偏移（单位：半段）
// 取值范围 [0, 4]
func SegmentOffsetHalves(segmentID int) int {
	return 2*segmentID - SectionHalfSegments*SectionIndexForSegment(segmentID)
}

// SegmentPortionInSection 返回段起点在区间内的位置（单位：段）
// 即 (segmentStartZ - sectionStartZ) / segmentLength
func SegmentPortionInSection(segmentID int) float64 {
	return float64(SegmentOffsetHalves(segmentID)) / 2
}

// InEmptyTail 判断段是否落在区间最后 0.5 段的空尾中
func InEmptyTail(segmentID int) bool {
	return SegmentOffsetHalves(segmentID) >= EmptyTailHalfSegments
}

// FirstSegmentOfSection 返回起点落在指定区间内的第一个段编号
// 即 ceil(5 * sectionIndex / 2)
func FirstSegmentOfSection(sectionIndex int) int {
	return -floorDiv(-SectionHalfSegments*sectionIndex, 2)
}

// SectionLength 返回区间长度
func (c *TrolleyConfig) SectionLength() float64 {
	return c.SegmentLength * SectionHalfSegments / 2
}

// SectionStartZ 返回区间起点的世界 Z 坐标
func (c *TrolleyConfig) SectionStartZ(sectionIndex int) float64 {
	return float64(SectionHalfSegments*sectionIndex) * c.SegmentLength / 2
}

// SectionBoundaryZ 返回区间结束边界（即下一区间起点）的 Z 坐标
func (c *TrolleyConfig) SectionBoundaryZ(sectionIndex int) float64 {
	return c.SectionStartZ(sectionIndex + 1)
}

// SectionIndexAt 返回世界 Z 坐标所在的区间编号
func (c *TrolleyConfig) SectionIndexAt(z float64) int {
	return int(math.Floor(z / c.SectionLength()))
}

// SegmentIndexAt 返回世界 Z 坐标所在的段编号
func (c *TrolleyConfig) SegmentIndexAt(z float64) int {
	return int(math.Floor(z / c.SegmentLength))
}

// SegmentStartZ 返回段起点的世界 Z 坐标
func (c *TrolleyConfig) SegmentStartZ(segmentID int) float64 {
	return float64(segmentID) * c.SegmentLength
}

// PlacementWindow 返回区间内容放置窗口 [lo, hi]（世界 Z 坐标）
// 默认为区间的 [15%, 65%]
func (c *TrolleyConfig) PlacementWindow(sectionIndex int) (float64, float64) {
	start := c.SectionStartZ(sectionIndex)
	length := c.SectionLength()
	return start + c.Content.PlacementWindowStart*length, start + c.Content.PlacementWindowEnd*length
}

// TrackCountForSegment 返回段的轨道数量
func (c *TrolleyConfig) TrackCountForSegment(segmentID int) int {
	if segmentID < c.SingleTrackSegmentCount {
		return 1
	}
	return c.TrackCount
}

// LaneX 返回轨道在段内的横向 X 坐标
//
// 参数:
//   - index: 轨道索引（从 0 开始）
//   - trackCount: 段的轨道数量
//
// 轨道以 X=0 为中心对称均匀分布。
func (c *TrolleyConfig) LaneX(index, trackCount int) float64 {
	center := float64(trackCount-1) / 2
	return (float64(index) - center) * c.TrackWidth
}

// CenterTrack 返回中间轨道的编号（从 1 开始）
// 偶数轨道时向下取整
func (c *TrolleyConfig) CenterTrack() int {
	return (c.TrackCount + 1) / 2
}
