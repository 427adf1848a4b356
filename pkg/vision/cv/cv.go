// Package cv 提供格子识别所需的图像匹配功能
//
// 处理流程:
//   - 模板库 (TemplateStore): 按固定键加载格子外观灰度模板
//   - 图像预处理 (PrepareImage): 截图转为 BGR 与灰度 Mat
//   - 多尺度模板匹配 (MultiScaleMatcher): 逐级缩小截图寻找最佳尺度
//   - 点去重 (FilterPoints): 每个格子只保留一个匹配点
//   - 坐标还原 (RescalePoints): 映射回原始截图坐标
//
// 基本用法:
//
//	store := cv.NewTemplateStore()
//	store.Load("resources")
//	defer store.Close()
//
//	prepared, err := cv.PrepareImage(screenshot)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prepared.Close()
//
//	matcher := cv.NewMultiScaleMatcher(store)
//	match, err := matcher.Match("udark", prepared.Gray)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	points := cv.FilterPoints(match.Points, match.TemplateWidth, match.TemplateHeight)
//	cells := cv.BuildCells(match, points)
package cv
