package config

// 布局配置常量
// 本文件定义了俯视画面的布局参数：窗口尺寸、世界到屏幕的缩放以及 HUD 位置

const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 600

	// PixelsPerUnitX 横向（X）每个世界单位对应的像素
	// 5 条轨道 * 2.5 单位约占 600 像素
	PixelsPerUnitX = 48.0

	// PixelsPerUnitZ 前进方向（Z）每个世界单位对应的像素
	// 纵向压缩，使电车前方能看到约 120 个单位
	PixelsPerUnitZ = 4.0

	// TrolleyScreenY 电车在屏幕上的固定 Y 坐标，世界随电车向下滚动
	TrolleyScreenY = 500.0

	// RailHalfWidth 轨道绘制的半宽（像素）
	RailHalfWidth = 3.0

	// HUDMarginX / HUDMarginY HUD 文本的左上角位置
	HUDMarginX = 12
	HUDMarginY = 12
)

// WorldToScreen 把世界坐标 (x, z) 转换为屏幕坐标
//
// 参数：
//   - x, z: 世界坐标
//   - cameraZ: 电车当前的 Z，屏幕以电车为基准滚动
//
// 返回：屏幕坐标 (sx, sy)，X=0 位于屏幕水平中心
func WorldToScreen(x, z, cameraZ float64) (float64, float64) {
	sx := GameWindowWidth/2 + x*PixelsPerUnitX
	sy := TrolleyScreenY - (z-cameraZ)*PixelsPerUnitZ
	return sx, sy
}

// VisibleZRange 返回以 cameraZ 为基准时屏幕可见的世界 Z 范围
func VisibleZRange(cameraZ float64) (float64, float64) {
	behind := (GameWindowHeight - TrolleyScreenY) / PixelsPerUnitZ
	ahead := TrolleyScreenY / PixelsPerUnitZ
	return cameraZ - behind, cameraZ + ahead
}
