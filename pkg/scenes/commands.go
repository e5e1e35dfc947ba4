package scenes

import (
	"errors"
	"log"
)

// ErrQuit 前端请求退出
var ErrQuit = errors.New("quit requested")

// CommandKind 玩家指令种类
type CommandKind int

const (
	CommandSelectTrack CommandKind = iota // 选择指定轨道
	CommandShiftLeft                      // 向左一条轨道
	CommandShiftRight                     // 向右一条轨道
	CommandTogglePause
	CommandRestart
	CommandQuit
)

// Command 前端把按键翻译成的指令
// ebiten 和终端前端共用同一套指令
type Command struct {
	Kind  CommandKind
	Track int // 仅 CommandSelectTrack 使用，从 1 开始
}

// Apply 执行一条指令
//
// 返回：
//   - ErrQuit: 请求退出
//   - 其他 error: 重新开局失败
func (s *GameScene) Apply(cmd Command) error {
	switch cmd.Kind {
	case CommandSelectTrack:
		s.SelectTrack(cmd.Track)
	case CommandShiftLeft:
		s.shiftTrack(-1)
	case CommandShiftRight:
		s.shiftTrack(1)
	case CommandTogglePause:
		s.TogglePause()
	case CommandRestart:
		return s.Restart()
	case CommandQuit:
		return ErrQuit
	default:
		log.Printf("[GameScene] WARNING: unknown command %d", cmd.Kind)
	}
	return nil
}

// PlannedTrack 返回电车在当前区间结束后将要行驶的轨道
// 当前区间有待执行请求时取请求的轨道，否则取目标轨道
func (s *GameScene) PlannedTrack() int {
	section := s.cfg.SectionIndexAt(s.trolleySystem.Position().Z)
	if track, ok := s.scheduler.PendingFor(section); ok {
		return track
	}
	return s.trolleySystem.TargetTrack()
}

// shiftTrack 以计划轨道为基准左右移动，越界时忽略
func (s *GameScene) shiftTrack(delta int) {
	next := s.PlannedTrack() + delta
	if next < 1 || next > s.cfg.TrackCount {
		return
	}
	s.SelectTrack(next)
}
