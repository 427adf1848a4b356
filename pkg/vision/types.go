// Package vision 提供格子识别的便捷接口
package vision

import (
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// Version 版本号
const Version = "1.0.0"

// ============ 类型别名 ============

// Point 二维坐标点
type Point = cv.Point

// Rectangle 矩形区域
type Rectangle = cv.Rectangle

// Cell 检测到的格子
type Cell = cv.Cell

// ScaleMatch 最佳尺度匹配结果
type ScaleMatch = cv.ScaleMatch

// Template 模板
type Template = cv.Template

// TemplateStore 模板库
type TemplateStore = cv.TemplateStore

// NewPoint 创建新的 Point
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// NewRectangle 从左上角坐标和宽高创建矩形
func NewRectangle(x, y, w, h int) Rectangle {
	return cv.NewRectangle(x, y, w, h)
}

// ImageInput 支持的图像输入类型
// 可以是文件路径 (string)、image.Image 或 gocv.Mat
type ImageInput interface{}

// 模板键分组
var (
	// UncheckedKeys 未翻开格子的模板键
	UncheckedKeys = []string{"udark", "umedium", "ulight"}
	// CheckedKeys 已翻开格子的模板键
	CheckedKeys = []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"}
)

// AllKeys 全部模板键
func AllKeys() []string {
	keys := make([]string, 0, len(UncheckedKeys)+len(CheckedKeys))
	keys = append(keys, UncheckedKeys...)
	return append(keys, CheckedKeys...)
}

// IsUnchecked 是否为未翻开格子
func IsUnchecked(key string) bool {
	for _, k := range UncheckedKeys {
		if k == key {
			return true
		}
	}
	return false
}
