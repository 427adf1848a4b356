package cv

import "image"

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rectangle 表示矩形区域（左上角与右下角）
type Rectangle struct {
	TopLeft     Point `json:"top_left"`
	BottomRight Point `json:"bottom_right"`
}

// NewRectangle 从左上角坐标和宽高创建矩形
func NewRectangle(x, y, w, h int) Rectangle {
	return Rectangle{
		TopLeft:     Point{X: x, Y: y},
		BottomRight: Point{X: x + w, Y: y + h},
	}
}

// TopRight 右上角
func (r Rectangle) TopRight() Point {
	return Point{X: r.BottomRight.X, Y: r.TopLeft.Y}
}

// BottomLeft 左下角
func (r Rectangle) BottomLeft() Point {
	return Point{X: r.TopLeft.X, Y: r.BottomRight.Y}
}

// Width 返回矩形宽度
func (r Rectangle) Width() int {
	return r.BottomRight.X - r.TopLeft.X
}

// Height 返回矩形高度
func (r Rectangle) Height() int {
	return r.BottomRight.Y - r.TopLeft.Y
}

// Center 返回矩形中心点
func (r Rectangle) Center() Point {
	return Point{
		X: (r.TopLeft.X + r.BottomRight.X) / 2,
		Y: (r.TopLeft.Y + r.BottomRight.Y) / 2,
	}
}

// ToImageRect 转换为 image.Rectangle
func (r Rectangle) ToImageRect() image.Rectangle {
	return image.Rect(r.TopLeft.X, r.TopLeft.Y, r.BottomRight.X, r.BottomRight.Y)
}

// MatchPoint 缩放后搜索图中相关系数超过阈值的位置
type MatchPoint struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Score float64 `json:"score"`
}

// ScaleMatch 多尺度搜索选出的最佳尺度结果
type ScaleMatch struct {
	// Key 模板键
	Key string `json:"key"`
	// Points 该尺度下的全部原始匹配点（行优先顺序）
	Points []MatchPoint `json:"points"`
	// Ratio 原图宽度 / 缩放后宽度
	Ratio float64 `json:"ratio"`
	// Scale 缩放因子
	Scale float64 `json:"scale"`
	// TemplateWidth 模板宽度
	TemplateWidth int `json:"template_width"`
	// TemplateHeight 模板高度
	TemplateHeight int `json:"template_height"`
	// ScalesTried 实际尝试的尺度数量
	ScalesTried int `json:"scales_tried"`
	// Time 匹配耗时（毫秒）
	Time float64 `json:"time,omitempty"`
}

// Cell 原图坐标系下检测到的一个格子
type Cell struct {
	Key    string    `json:"key"`
	Rect   Rectangle `json:"rect"`
	Center Point     `json:"center"`
	Score  float64   `json:"score"`
}
