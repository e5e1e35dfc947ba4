package systems

import (
	"log"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/gonewx/trolley/pkg/config"
)

// TrackSwitcher 调度器驱动的换轨执行方
type TrackSwitcher interface {
	SwitchToTrack(n int) error
	Position() r3.Vector
}

// ScheduledChange 待执行的换轨请求
// 在电车越过 SectionIndex 区间的结束边界时执行
type ScheduledChange struct {
	SectionIndex int
	TrackNumber  int
}

// SectionScheduler 区间换轨调度器
//
// 玩家可以在任意时刻选择轨道，但实际换轨只在区间边界发生。
// 待执行请求按区间编号存放，每个区间至多一个，后来的请求覆盖先前的。
type SectionScheduler struct {
	cfg     *config.TrolleyConfig
	trolley TrackSwitcher

	pending  map[int]int // sectionIndex -> trackNumber
	executed int
}

// NewSectionScheduler 创建区间换轨调度器
func NewSectionScheduler(cfg *config.TrolleyConfig, trolley TrackSwitcher) *SectionScheduler {
	return &SectionScheduler{
		cfg:     cfg,
		trolley: trolley,
		pending: make(map[int]int),
	}
}

// ScheduleTrackChange 为区间登记换轨请求（覆盖同区间的旧请求）
func (s *SectionScheduler) ScheduleTrackChange(trackNumber, sectionIndex int) {
	if prev, ok := s.pending[sectionIndex]; ok && prev != trackNumber {
		log.Printf("[SectionScheduler] Section %d: replacing track %d with %d", sectionIndex, prev, trackNumber)
	}
	s.pending[sectionIndex] = trackNumber
}

// Update 执行所有已到达边界的换轨请求
//
// 边界判定: z + SectionEpsilon >= (sectionIndex + 1) * SectionLength。
// 一帧越过多个边界时按区间编号升序执行。
func (s *SectionScheduler) Update(deltaTime float64) {
	if len(s.pending) == 0 {
		return
	}

	z := s.trolley.Position().Z
	var due []int
	for sectionIndex := range s.pending {
		if z+s.cfg.SectionEpsilon >= s.cfg.SectionBoundaryZ(sectionIndex) {
			due = append(due, sectionIndex)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Ints(due)

	for _, sectionIndex := range due {
		track := s.pending[sectionIndex]
		delete(s.pending, sectionIndex)
		s.executed++

		// 非法编号由执行方记录警告
		if err := s.trolley.SwitchToTrack(track); err != nil {
			continue
		}
		log.Printf("[SectionScheduler] Section %d boundary reached (z=%.3f): switch to track %d", sectionIndex, z, track)
	}
}

// Pending 返回待执行的请求（按区间编号升序）
func (s *SectionScheduler) Pending() []ScheduledChange {
	result := make([]ScheduledChange, 0, len(s.pending))
	for sectionIndex, track := range s.pending {
		result = append(result, ScheduledChange{SectionIndex: sectionIndex, TrackNumber: track})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SectionIndex < result[j].SectionIndex })
	return result
}

// PendingFor 返回区间的待执行请求
func (s *SectionScheduler) PendingFor(sectionIndex int) (int, bool) {
	track, ok := s.pending[sectionIndex]
	return track, ok
}

// ExecutedCount 返回已执行的请求数量
func (s *SectionScheduler) ExecutedCount() int {
	return s.executed
}

// Clear 清空所有待执行请求
func (s *SectionScheduler) Clear() {
	s.pending = make(map[int]int)
	s.executed = 0
}
