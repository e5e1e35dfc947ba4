package app

import (
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// trackKeys 数字键 1-9 对应轨道 1-9
var trackKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// keyCommands 其余按键到指令的映射
var keyCommands = []struct {
	key ebiten.Key
	cmd scenes.Command
}{
	{ebiten.KeyArrowLeft, scenes.Command{Kind: scenes.CommandShiftLeft}},
	{ebiten.KeyA, scenes.Command{Kind: scenes.CommandShiftLeft}},
	{ebiten.KeyArrowRight, scenes.Command{Kind: scenes.CommandShiftRight}},
	{ebiten.KeyD, scenes.Command{Kind: scenes.CommandShiftRight}},
	{ebiten.KeyP, scenes.Command{Kind: scenes.CommandTogglePause}},
	{ebiten.KeySpace, scenes.Command{Kind: scenes.CommandTogglePause}},
	{ebiten.KeyR, scenes.Command{Kind: scenes.CommandRestart}},
	{ebiten.KeyEscape, scenes.Command{Kind: scenes.CommandQuit}},
}

// ReadCommands 把本帧按下的按键翻译成指令
//
// 参数：
//   - justPressed: 按键是否本帧刚按下（运行时传 inpututil.IsKeyJustPressed）
//   - trackCount: 轨道数量，超出的数字键忽略
func ReadCommands(justPressed func(ebiten.Key) bool, trackCount int) []scenes.Command {
	var cmds []scenes.Command
	for i, key := range trackKeys {
		if i >= trackCount {
			break
		}
		if justPressed(key) {
			cmds = append(cmds, scenes.Command{Kind: scenes.CommandSelectTrack, Track: i + 1})
		}
	}
	for _, kc := range keyCommands {
		if justPressed(kc.key) {
			cmds = append(cmds, kc.cmd)
		}
	}
	return cmds
}

// TouchCommand 把一次触摸翻译成指令
// 屏幕左三分之一向左换轨，右三分之一向右，中间切换暂停
func TouchCommand(x int) scenes.Command {
	switch {
	case x < config.GameWindowWidth/3:
		return scenes.Command{Kind: scenes.CommandShiftLeft}
	case x >= config.GameWindowWidth*2/3:
		return scenes.Command{Kind: scenes.CommandShiftRight}
	default:
		return scenes.Command{Kind: scenes.CommandTogglePause}
	}
}

// readTouchCommands 读取本帧新的触摸
func readTouchCommands() []scenes.Command {
	var cmds []scenes.Command
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, _ := ebiten.TouchPosition(id)
		cmds = append(cmds, TouchCommand(x))
	}
	return cmds
}
