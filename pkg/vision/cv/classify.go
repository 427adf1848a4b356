package cv

import (
	"math"
	"sort"
)

// MergeByScore 合并多个模板的检测结果
// 同一位置被多个模板匹配时只保留得分最高的一个，与模板键的遍历顺序无关。
// 两个格子中心距离小于已保留格子的 min(宽, 高) 视为同一位置。
// 结果按左上角行优先排序
func MergeByScore(cells []Cell) []Cell {
	order := make([]int, len(cells))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cells[order[a]].Score > cells[order[b]].Score
	})

	kept := make([]Cell, 0, len(cells))
	for _, idx := range order {
		c := cells[idx]
		conflict := false
		for _, k := range kept {
			radius := float64(min(k.Rect.Width(), k.Rect.Height()))
			dx := float64(c.Center.X - k.Center.X)
			dy := float64(c.Center.Y - k.Center.Y)
			if math.Hypot(dx, dy) < radius {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(a, b int) bool {
		pa, pb := kept[a].Rect.TopLeft, kept[b].Rect.TopLeft
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return pa.X < pb.X
	})
	return kept
}
