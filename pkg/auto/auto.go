// Package auto 提供截图、鼠标和窗口等系统操作共享的类型和坐标换算。
// 具体功能分布在子包中：screen, input, window, display。
//
// 坐标约定：截图像素（物理像素）是唯一对外的坐标空间，
// 需要调用 robotgo 时由 Normalize* 系列函数换算。
package auto

import (
	"image"
	"math"
)

// Region 表示屏幕上的矩形区域
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 转换为 image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty 区域是否为空
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// RegionFromRect 从 image.Rectangle 创建
func RegionFromRect(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// ScaleInt 缩放整数值
func ScaleInt(value int, factor float64) int {
	if factor <= 0 {
		return value
	}
	return int(math.Round(float64(value) * factor))
}

// normalizeScale 过滤异常的缩放比，接近 1 的视为 1
func normalizeScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1.0
	}
	if v < 0.5 || v > 4.0 {
		return 1.0
	}
	if math.Abs(v-1.0) < 0.05 {
		return 1.0
	}
	return v
}
