package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/trolley/pkg/scenes"
)

// commandForKey 把终端按键翻译成指令
//
// 返回：
//   - scenes.Command: 指令
//   - bool: 按键是否有对应的指令
func commandForKey(ev *tcell.EventKey, trackCount int) (scenes.Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return scenes.Command{Kind: scenes.CommandShiftLeft}, true
	case tcell.KeyRight:
		return scenes.Command{Kind: scenes.CommandShiftRight}, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return scenes.Command{Kind: scenes.CommandQuit}, true
	case tcell.KeyRune:
	default:
		return scenes.Command{}, false
	}

	r := ev.Rune()
	switch {
	case r >= '1' && r <= '9':
		track := int(r - '0')
		if track > trackCount {
			return scenes.Command{}, false
		}
		return scenes.Command{Kind: scenes.CommandSelectTrack, Track: track}, true
	case r == 'a' || r == 'h':
		return scenes.Command{Kind: scenes.CommandShiftLeft}, true
	case r == 'd' || r == 'l':
		return scenes.Command{Kind: scenes.CommandShiftRight}, true
	case r == 'p' || r == ' ':
		return scenes.Command{Kind: scenes.CommandTogglePause}, true
	case r == 'r':
		return scenes.Command{Kind: scenes.CommandRestart}, true
	case r == 'q':
		return scenes.Command{Kind: scenes.CommandQuit}, true
	}
	return scenes.Command{}, false
}
