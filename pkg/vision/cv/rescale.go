package cv

// RescalePoints 把缩小后搜索图中的点和模板尺寸映射回原图
// 坐标与宽高乘以 ratio 后截断为整数；中心点使用整数除法
func RescalePoints(points []MatchPoint, ratio float64, width, height int) ([]Rectangle, []Point) {
	adjustedW := int(float64(width) * ratio)
	adjustedH := int(float64(height) * ratio)

	rects := make([]Rectangle, 0, len(points))
	centers := make([]Point, 0, len(points))
	for _, p := range points {
		x := int(float64(p.X) * ratio)
		y := int(float64(p.Y) * ratio)

		rects = append(rects, NewRectangle(x, y, adjustedW, adjustedH))
		centers = append(centers, Point{X: x + adjustedW/2, Y: y + adjustedH/2})
	}
	return rects, centers
}

// BuildCells 去重后的匹配点转换为原图坐标系下的格子
func BuildCells(match *ScaleMatch, points []MatchPoint) []Cell {
	if match == nil {
		return nil
	}
	rects, centers := RescalePoints(points, match.Ratio, match.TemplateWidth, match.TemplateHeight)

	cells := make([]Cell, len(points))
	for i := range points {
		cells[i] = Cell{
			Key:    match.Key,
			Rect:   rects[i],
			Center: centers[i],
			Score:  points[i].Score,
		}
	}
	return cells
}
