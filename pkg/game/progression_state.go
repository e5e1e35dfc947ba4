package game

import (
	"log"

	"github.com/google/uuid"
)

// ProgressionState 存储一局游戏的进度状态
//
// 分数规则：
//   - 撞到行人立即计入 PeopleHit，但扣分延迟到该段完成时结算
//   - 段完成时结算：Score += 本段避开人数 - 本段撞到人数
//   - 撞到障碍物立即结束游戏，且不可恢复
type ProgressionState struct {
	RunID uuid.UUID // 本局唯一标识

	Score         int
	PeopleHit     int
	PeopleAvoided int

	CurrentSegment       int
	CurrentSection       int
	CurrentTrackPosition int     // 当前所在轨道（从 1 开始）
	Distance             float64 // 已行驶距离（Z）

	IsGameOver bool
	IsPaused   bool
	HitBarrier bool
}

// NewProgressionState 创建新一局的进度状态
//
// 参数：
//   - startTrack: 开局所在轨道（通常为中间轨道）
func NewProgressionState(startTrack int) *ProgressionState {
	ps := &ProgressionState{}
	ps.Reset(startTrack)
	return ps
}

// Reset 重置为新一局（生成新的 RunID）
func (ps *ProgressionState) Reset(startTrack int) {
	*ps = ProgressionState{
		RunID:                uuid.New(),
		CurrentTrackPosition: startTrack,
	}
}

// RecordPersonHit 记录撞到一名行人
func (ps *ProgressionState) RecordPersonHit() {
	if ps.IsGameOver {
		return
	}
	ps.PeopleHit++
}

// ApplySegmentOutcome 结算一个完成的轨道段
//
// 参数：
//   - avoided: 本段未被撞到的行人数
//   - hit: 本段被撞到的行人数
func (ps *ProgressionState) ApplySegmentOutcome(avoided, hit int) {
	if ps.IsGameOver {
		return
	}
	ps.PeopleAvoided += avoided
	ps.Score += avoided - hit
}

// EndByBarrier 撞到障碍物，游戏结束
func (ps *ProgressionState) EndByBarrier() {
	if ps.IsGameOver {
		return
	}
	ps.IsGameOver = true
	ps.HitBarrier = true
	log.Printf("[Progression] Game over: barrier hit at segment %d (score=%d, hit=%d, avoided=%d)",
		ps.CurrentSegment, ps.Score, ps.PeopleHit, ps.PeopleAvoided)
}

// SetPaused 设置暂停状态（游戏结束后不可再切换）
func (ps *ProgressionState) SetPaused(paused bool) {
	if ps.IsGameOver {
		return
	}
	ps.IsPaused = paused
}

// UpdatePosition 同步电车当前位置信息
func (ps *ProgressionState) UpdatePosition(segment, section, track int, distance float64) {
	ps.CurrentSegment = segment
	ps.CurrentSection = section
	ps.CurrentTrackPosition = track
	ps.Distance = distance
}

// ToRecord 转换为可持久化的扁平记录
func (ps *ProgressionState) ToRecord() PersistedRecord {
	return PersistedRecord{
		RunID:                ps.RunID.String(),
		Score:                ps.Score,
		PeopleHit:            ps.PeopleHit,
		PeopleAvoided:        ps.PeopleAvoided,
		CurrentSegment:       ps.CurrentSegment,
		CurrentTrackPosition: ps.CurrentTrackPosition,
		IsGameOver:           ps.IsGameOver,
		IsPaused:             ps.IsPaused,
		HitBarrier:           ps.HitBarrier,
	}
}

// ApplyRecord 从持久化记录恢复状态
// RunID 无法解析时生成新的 RunID
func (ps *ProgressionState) ApplyRecord(rec PersistedRecord) {
	id, err := uuid.Parse(rec.RunID)
	if err != nil {
		id = uuid.New()
	}
	*ps = ProgressionState{
		RunID:                id,
		Score:                rec.Score,
		PeopleHit:            rec.PeopleHit,
		PeopleAvoided:        rec.PeopleAvoided,
		CurrentSegment:       rec.CurrentSegment,
		CurrentTrackPosition: rec.CurrentTrackPosition,
		IsGameOver:           rec.IsGameOver,
		IsPaused:             rec.IsPaused,
		HitBarrier:           rec.HitBarrier,
	}
}
