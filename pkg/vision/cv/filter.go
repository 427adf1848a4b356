package cv

import (
	"math"

	"github.com/zoeyai/sweeper/internal/logger"
)

// FilterPoints 按距离过滤匹配点，使每个格子只保留一个点
// 按输入顺序先到先得：与任一已接受点的距离小于 min(width, height) 即丢弃。
// O(N^2)
func FilterPoints(points []MatchPoint, width, height int) []MatchPoint {
	radius := float64(min(width, height))

	filtered := make([]MatchPoint, 0, len(points))
	for _, p := range points {
		keep := true
		for _, q := range filtered {
			if distance(p, q) < radius {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, p)
		}
	}

	logger.Debug("过滤匹配点: %d -> %d", len(points), len(filtered))
	return filtered
}

// FilterPointsIndexed 与 FilterPoints 结果完全一致，使用网格哈希加速
// 网格边长等于半径，只需检查相邻 3x3 个网格
func FilterPointsIndexed(points []MatchPoint, width, height int) []MatchPoint {
	r := min(width, height)
	if r <= 0 {
		return append([]MatchPoint(nil), points...)
	}
	radius := float64(r)

	type cellKey struct{ x, y int }
	grid := make(map[cellKey][]MatchPoint)
	keyOf := func(p MatchPoint) cellKey {
		return cellKey{floorDiv(p.X, r), floorDiv(p.Y, r)}
	}

	filtered := make([]MatchPoint, 0, len(points))
	for _, p := range points {
		k := keyOf(p)
		keep := true
	search:
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				for _, q := range grid[cellKey{k.x + dx, k.y + dy}] {
					if distance(p, q) < radius {
						keep = false
						break search
					}
				}
			}
		}
		if keep {
			filtered = append(filtered, p)
			grid[k] = append(grid[k], p)
		}
	}
	return filtered
}

func distance(a, b MatchPoint) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
