package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/gonewx/trolley/pkg/systems"
	"github.com/gonewx/trolley/pkg/types"
)

const (
	unitsPerRow    = 2.0 // 每行代表的 Z 距离
	columnsPerLane = 6   // 相邻轨道之间的列数
	trolleyRowGap  = 3   // 电车距离底部的行数
	hudRows        = 2
)

var (
	styleRail    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTrolley = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// contentGlyph 内容在终端中的字符和样式
func contentGlyph(ct types.ContentType) (rune, tcell.Style) {
	switch ct {
	case types.ContentPerson:
		return 'o', tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	case types.ContentTrolleyColor:
		return '#', tcell.StyleDefault.Foreground(tcell.ColorRed)
	case types.ContentRock:
		return '@', tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case types.ContentBuffer:
		return '=', tcell.StyleDefault.Foreground(tcell.ColorOrange)
	}
	return '?', tcell.StyleDefault
}

// view 终端坐标映射
type view struct {
	width, height int
	cameraZ       float64
	trackWidth    float64
}

// column 世界 X 对应的列
func (v view) column(x float64) int {
	return v.width/2 + int(math.Round(x/v.trackWidth*columnsPerLane))
}

// row 世界 Z 对应的行
func (v view) row(z float64) int {
	return v.height - trolleyRowGap - int(math.Round((z-v.cameraZ)/unitsPerRow))
}

// zRange 屏幕可见的 Z 范围
func (v view) zRange() (float64, float64) {
	return v.cameraZ - trolleyRowGap*unitsPerRow, v.cameraZ + float64(v.height-trolleyRowGap-hudRows)*unitsPerRow
}

// draw 绘制一帧
func draw(screen tcell.Screen, registry *systems.SceneRegistry, session *scenes.GameScene, cfg *config.TrolleyConfig) {
	screen.Clear()
	width, height := screen.Size()
	trolley := session.Trolley()
	v := view{width: width, height: height, cameraZ: trolley.Position.Z, trackWidth: cfg.TrackWidth}

	minZ, maxZ := v.zRange()
	for _, obj := range registry.Visible(minZ, maxZ) {
		switch obj.Kind {
		case components.SceneObjectTrack:
			col := v.column(obj.Position.X)
			for z := math.Max(obj.Position.Z, minZ); z < obj.Position.Z+obj.Length && z <= maxZ; z += unitsPerRow {
				putRune(screen, v, col, v.row(z), '|', styleRail)
			}
		case components.SceneObjectContent:
			r, style := contentGlyph(obj.ContentType)
			putRune(screen, v, v.column(obj.Position.X), v.row(obj.Position.Z), r, style)
		}
	}

	putRune(screen, v, v.column(trolley.Position.X), v.row(trolley.Position.Z), 'A', styleTrolley)

	p := session.Progression()
	putString(screen, 0, 0, fmt.Sprintf("Score %d  Hit %d  Avoided %d  Speed x%.2f",
		p.Score, p.PeopleHit, p.PeopleAvoided, trolley.Speed/trolley.BaseSpeed), styleHUD)
	putString(screen, 0, 1, fmt.Sprintf("Track %d -> %d  [1-%d] select  <- -> shift  p pause  r restart  q quit",
		trolley.CurrentTrack, session.PlannedTrack(), cfg.TrackCount), styleHUD)

	switch {
	case p.IsGameOver:
		putString(screen, width/2-12, height/2, " GAME OVER - r / q ", styleBanner)
	case p.IsPaused:
		putString(screen, width/2-5, height/2, " PAUSED ", styleBanner)
	}

	screen.Show()
}

// putRune 在可见区域内（HUD 以下）写入字符
func putRune(screen tcell.Screen, v view, x, y int, r rune, style tcell.Style) {
	if x < 0 || x >= v.width || y < hudRows || y >= v.height {
		return
	}
	screen.SetContent(x, y, r, nil, style)
}

func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
