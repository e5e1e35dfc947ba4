package systems

import (
	"log"

	"github.com/gonewx/trolley/pkg/config"
)

// Autopilot 自动驾驶输入方
//
// 观察下一个区间的内容，在当前区间为其登记换轨请求：
// 选择没有障碍物且行人最少的轨道，人数相同时选离当前目标最近的轨道。
// 单轨开局段内不做规划。
// 供模拟器和长时间运行测试使用。
type Autopilot struct {
	cfg       *config.TrolleyConfig
	content   *ContentRuleSystem
	trolley   *TrolleyMotionSystem
	scheduler *SectionScheduler

	lastPlanned int
}

// NewAutopilot 创建自动驾驶
func NewAutopilot(cfg *config.TrolleyConfig, content *ContentRuleSystem, trolley *TrolleyMotionSystem, scheduler *SectionScheduler) *Autopilot {
	return &Autopilot{
		cfg:         cfg,
		content:     content,
		trolley:     trolley,
		scheduler:   scheduler,
		lastPlanned: -1,
	}
}

// Reset 清除规划记录
func (a *Autopilot) Reset() {
	a.lastPlanned = -1
}

// Plan 为下一个区间规划轨道
//
// 返回：
//   - int: 选择的轨道编号（从 1 开始），未规划时为 0
//   - bool: 本次是否完成了对下一个区间的规划
func (a *Autopilot) Plan() (int, bool) {
	z := a.trolley.Position().Z
	if a.cfg.SegmentIndexAt(z) < a.cfg.SingleTrackSegmentCount {
		return 0, false
	}
	current := a.cfg.SectionIndexAt(z)
	next := current + 1
	if next <= a.lastPlanned {
		return 0, false
	}

	occupancy := a.content.TrackOccupancy(next)
	if occupancy == nil {
		// 下一个区间没有内容（尚未生成或被跳过），保持当前轨道
		if a.content.IsProcessed(next) {
			a.lastPlanned = next
		}
		return 0, false
	}

	best := ChooseTrack(occupancy, a.trolley.TargetTrack())
	if best == 0 {
		return 0, false
	}

	a.lastPlanned = next
	if best != a.trolley.TargetTrack() {
		a.scheduler.ScheduleTrackChange(best, current)
		log.Printf("[Autopilot] Section %d: planned track %d", next, best)
	}
	return best, true
}

// ChooseTrack 从轨道概况中选择最优轨道
//
// 返回轨道编号（从 1 开始）；所有轨道都有障碍物时返回 0。
func ChooseTrack(occupancy []TrackContent, fromTrack int) int {
	best := 0
	bestPeople := 0
	bestDistance := 0
	for i, tc := range occupancy {
		if tc.Barrier {
			continue
		}
		track := i + 1
		distance := track - fromTrack
		if distance < 0 {
			distance = -distance
		}
		if best == 0 || tc.People < bestPeople || (tc.People == bestPeople && distance < bestDistance) {
			best = track
			bestPeople = tc.People
			bestDistance = distance
		}
	}
	return best
}
