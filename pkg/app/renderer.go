package app

import (
	"fmt"
	"image/color"

	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
	"github.com/gonewx/trolley/pkg/scenes"
	"github.com/gonewx/trolley/pkg/systems"
	"github.com/gonewx/trolley/pkg/types"
	"github.com/gonewx/trolley/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	backgroundColor = color.RGBA{R: 46, G: 64, B: 48, A: 255}
	railColor       = color.RGBA{R: 150, G: 140, B: 130, A: 255}
	trolleyColor    = color.RGBA{R: 230, G: 200, B: 60, A: 255}
	overlayColor    = color.RGBA{A: 160}
)

// contentColors 内容类型的填充色
var contentColors = map[types.ContentType]color.RGBA{
	types.ContentPerson:       {R: 240, G: 220, B: 200, A: 255},
	types.ContentTrolleyColor: {R: 200, G: 60, B: 60, A: 255},
	types.ContentRock:         {R: 110, G: 100, B: 95, A: 255},
	types.ContentBuffer:       {R: 220, G: 120, B: 30, A: 255},
}

// contentSize 内容在屏幕上的边长（像素）
func contentSize(ct types.ContentType) float32 {
	if ct.IsBarrier() {
		return 26
	}
	return 12
}

// Renderer 俯视绘制场景登记表中的对象
type Renderer struct {
	registry *systems.SceneRegistry
}

// NewRenderer 创建渲染器
func NewRenderer(registry *systems.SceneRegistry) *Renderer {
	return &Renderer{registry: registry}
}

// Draw 以电车为基准绘制轨道、内容、电车和 HUD
func (r *Renderer) Draw(screen *ebiten.Image, session *scenes.GameScene, bestScore int) {
	screen.Fill(backgroundColor)

	trolley := session.Trolley()
	cameraZ := trolley.Position.Z
	minZ, maxZ := config.VisibleZRange(cameraZ)

	for _, obj := range r.registry.Visible(minZ, maxZ) {
		switch obj.Kind {
		case components.SceneObjectTrack:
			r.drawTrack(screen, obj, cameraZ)
		case components.SceneObjectContent:
			r.drawContent(screen, obj, cameraZ)
		}
	}

	// 换轨预览曲线
	if trolley.IsTransitioning {
		const samples = 12
		px, py := config.WorldToScreen(trolley.Curve.P0.X, trolley.Curve.P0.Z, cameraZ)
		for i := 1; i <= samples; i++ {
			pt := trolley.Curve.Point(float64(i) / samples)
			nx, ny := config.WorldToScreen(pt.X, pt.Z, cameraZ)
			vector.StrokeLine(screen, float32(px), float32(py), float32(nx), float32(ny), 2, trolleyColor, true)
			px, py = nx, ny
		}
	}

	// 电车
	sx, sy := config.WorldToScreen(trolley.Position.X, trolley.Position.Z, cameraZ)
	w := float32(2 * session.Config().Collision.TrolleyHalfWidth * config.PixelsPerUnitX)
	h := float32(2 * session.Config().Collision.TrolleyHalfDepth * config.PixelsPerUnitZ * 3)
	vector.DrawFilledRect(screen, float32(sx)-w/2, float32(sy)-h/2, w, h, trolleyColor, true)

	r.drawHUD(screen, session, bestScore)
}

func (r *Renderer) drawTrack(screen *ebiten.Image, obj *components.SceneObject, cameraZ float64) {
	x0, y0 := config.WorldToScreen(obj.Position.X, obj.Position.Z, cameraZ)
	x1, y1 := config.WorldToScreen(obj.Position.X, obj.Position.Z+obj.Length, cameraZ)
	vector.StrokeLine(screen, float32(x0)-config.RailHalfWidth*2, float32(y0), float32(x1)-config.RailHalfWidth*2, float32(y1), config.RailHalfWidth, railColor, true)
	vector.StrokeLine(screen, float32(x0)+config.RailHalfWidth*2, float32(y0), float32(x1)+config.RailHalfWidth*2, float32(y1), config.RailHalfWidth, railColor, true)
}

func (r *Renderer) drawContent(screen *ebiten.Image, obj *components.SceneObject, cameraZ float64) {
	clr, ok := contentColors[obj.ContentType]
	if !ok {
		return
	}
	sx, sy := config.WorldToScreen(obj.Position.X, obj.Position.Z, cameraZ)
	size := contentSize(obj.ContentType)
	vector.DrawFilledRect(screen, float32(sx)-size/2, float32(sy)-size/2, size, size, clr, true)
}

func (r *Renderer) drawHUD(screen *ebiten.Image, session *scenes.GameScene, bestScore int) {
	p := session.Progression()
	trolley := session.Trolley()

	speedInfo := fmt.Sprintf("Speed: %.1f (x%.2f)", trolley.Speed, trolley.Speed/trolley.BaseSpeed)
	if session.IsHighSpeed() {
		speedInfo += " HIGH"
	}
	lines := []string{
		fmt.Sprintf("Score: %d   Best: %d", p.Score, bestScore),
		fmt.Sprintf("Hit: %d   Avoided: %d", p.PeopleHit, p.PeopleAvoided),
		fmt.Sprintf("Track: %d -> %d   Segment: %d", trolley.CurrentTrack, session.PlannedTrack(), p.CurrentSegment),
		speedInfo,
	}
	if utils.IsMobile() {
		lines = append(lines, "Tap left/right third to switch, middle to pause")
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, config.HUDMarginX, config.HUDMarginY+i*16)
	}

	var banner string
	switch {
	case p.IsGameOver:
		banner = "GAME OVER - press R to restart, Esc to quit"
	case p.IsPaused:
		banner = "PAUSED - press P to resume"
	default:
		return
	}
	vector.DrawFilledRect(screen, 0, config.GameWindowHeight/2-20, config.GameWindowWidth, 40, overlayColor, false)
	ebitenutil.DebugPrintAt(screen, banner, config.GameWindowWidth/2-len(banner)*3, config.GameWindowHeight/2-8)
}
