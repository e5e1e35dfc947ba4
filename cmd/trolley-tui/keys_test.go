package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/trolley/pkg/scenes"
)

func TestCommandForKey(t *testing.T) {
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		want   scenes.Command
		wantOK bool
	}{
		{
			name:   "数字键选择轨道",
			ev:     tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone),
			want:   scenes.Command{Kind: scenes.CommandSelectTrack, Track: 4},
			wantOK: true,
		},
		{
			name: "超出轨道数量",
			ev:   tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone),
		},
		{
			name:   "方向键左",
			ev:     tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone),
			want:   scenes.Command{Kind: scenes.CommandShiftLeft},
			wantOK: true,
		},
		{
			name:   "vi 风格向右",
			ev:     tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone),
			want:   scenes.Command{Kind: scenes.CommandShiftRight},
			wantOK: true,
		},
		{
			name:   "暂停",
			ev:     tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone),
			want:   scenes.Command{Kind: scenes.CommandTogglePause},
			wantOK: true,
		},
		{
			name:   "Esc 退出",
			ev:     tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			want:   scenes.Command{Kind: scenes.CommandQuit},
			wantOK: true,
		},
		{
			name: "未绑定的按键",
			ev:   tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := commandForKey(tt.ev, 5)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("commandForKey() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
