//go:build windows

package auto

import (
	"sync"

	"github.com/go-vgo/robotgo"
	"github.com/lxn/win"

	"github.com/zoeyai/sweeper/internal/logger"
)

// Windows 下有两个坐标空间：
//   - 截图像素：robotgo.CaptureImg 始终返回物理像素，模板匹配结果在此空间
//   - robotgo 输入坐标：在不同 DPI 感知模式下可能是物理或逻辑像素
//
// 初始化时对比截图尺寸与 robotgo.GetScreenSize() 探测两者的比例 coordScale，
// 截图坐标 / coordScale = robotgo 坐标。

var (
	coordinateScaleMu sync.Mutex
	cachedScaleX      float64
	cachedScaleY      float64
	coordsDetected    bool
)

// GetDPIScale 获取主显示器 DPI 缩放比例
// 1.0 = 100%, 1.25 = 125%, 1.5 = 150%, 2.0 = 200%
func GetDPIScale() float64 {
	dpi := 96
	if hdc := win.GetDC(0); hdc != 0 {
		if d := win.GetDeviceCaps(hdc, win.LOGPIXELSX); d > 0 {
			dpi = int(d)
		}
		win.ReleaseDC(0, hdc)
	}
	return normalizeScale(float64(dpi) / 96.0)
}

// GetPhysicalScreenSize 获取物理屏幕尺寸（与截图分辨率一致）
func GetPhysicalScreenSize() (width, height int) {
	w, h := robotgo.GetScreenSize()
	scaleX, scaleY := getCoordinateScale()
	return ScaleInt(w, scaleX), ScaleInt(h, scaleY)
}

func getCoordinateScale() (float64, float64) {
	coordinateScaleMu.Lock()
	defer coordinateScaleMu.Unlock()

	if coordsDetected {
		return cachedScaleX, cachedScaleY
	}

	cachedScaleX, cachedScaleY = detectCoordinateScale()
	coordsDetected = true

	rw, rh := robotgo.GetScreenSize()
	logger.Debug("坐标空间: DPI=%.0f%% robotgo_screen=%dx%d coordScale=%.3f,%.3f",
		GetDPIScale()*100, rw, rh, cachedScaleX, cachedScaleY)
	return cachedScaleX, cachedScaleY
}

func detectCoordinateScale() (float64, float64) {
	reportedW, reportedH := robotgo.GetScreenSize()
	if reportedW <= 0 || reportedH <= 0 {
		return 1.0, 1.0
	}

	img, err := robotgo.CaptureImg()
	if err != nil || img == nil {
		// 截图失败时用 DPI 兜底
		s := GetDPIScale()
		return s, s
	}

	captureW := img.Bounds().Dx()
	captureH := img.Bounds().Dy()
	if captureW <= 0 || captureH <= 0 {
		return 1.0, 1.0
	}

	return normalizeScale(float64(captureW) / float64(reportedW)),
		normalizeScale(float64(captureH) / float64(reportedH))
}

// ResetCoordinateScaleCache 重置坐标缩放缓存（显示器设置变化后调用）
func ResetCoordinateScaleCache() {
	coordinateScaleMu.Lock()
	defer coordinateScaleMu.Unlock()
	coordsDetected = false
}

// NormalizePointForInput 将截图坐标转换为 robotgo 输入坐标
func NormalizePointForInput(x, y int) (int, int) {
	scaleX, scaleY := getCoordinateScale()
	return ScaleInt(x, 1.0/scaleX), ScaleInt(y, 1.0/scaleY)
}

// NormalizePointForScreen 将 robotgo 坐标转换为截图坐标
func NormalizePointForScreen(x, y int) (int, int) {
	scaleX, scaleY := getCoordinateScale()
	return ScaleInt(x, scaleX), ScaleInt(y, scaleY)
}

// NormalizeRegionForInput 将截图区域转换为 robotgo 输入区域
func NormalizeRegionForInput(r Region) Region {
	scaleX, scaleY := getCoordinateScale()
	out := Region{
		X:      ScaleInt(r.X, 1.0/scaleX),
		Y:      ScaleInt(r.Y, 1.0/scaleY),
		Width:  ScaleInt(r.Width, 1.0/scaleX),
		Height: ScaleInt(r.Height, 1.0/scaleY),
	}
	if r.Width > 0 && out.Width < 1 {
		out.Width = 1
	}
	if r.Height > 0 && out.Height < 1 {
		out.Height = 1
	}
	return out
}

// NormalizeRegionForScreen 将 robotgo 区域转换为截图区域
func NormalizeRegionForScreen(r Region) Region {
	scaleX, scaleY := getCoordinateScale()
	return Region{
		X:      ScaleInt(r.X, scaleX),
		Y:      ScaleInt(r.Y, scaleY),
		Width:  ScaleInt(r.Width, scaleX),
		Height: ScaleInt(r.Height, scaleY),
	}
}
