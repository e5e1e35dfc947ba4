package app

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 前端场景（如对局画面）
// 每个场景有自己的更新和绘制逻辑。
type Scene interface {
	// Update 按经过的时间推进场景，deltaTime 单位为秒
	// 返回 ebiten.Termination 表示请求退出
	Update(deltaTime float64) error

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口，场景在程序退出时保存进度
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 按 Esc 退出
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 false 表示保存失败（程序仍会正常退出）
	SaveOnExit() bool
}
