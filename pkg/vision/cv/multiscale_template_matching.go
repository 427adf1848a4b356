package cv

import (
	"fmt"
	"sort"
	"time"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zoeyai/sweeper/internal/logger"
)

// 默认匹配参数
var (
	// DefaultThreshold 默认匹配阈值
	DefaultThreshold = 0.8
	// DefaultScaleCount 默认尺度数量
	DefaultScaleCount = 30
	// DefaultScaleMin 最小缩放因子
	DefaultScaleMin = 0.1
	// DefaultScaleMax 最大缩放因子
	DefaultScaleMax = 1.0
)

// MultiScaleMatcher 多尺度模板匹配器
// 模板尺寸固定，逐级缩小截图以适配不同窗口大小
type MultiScaleMatcher struct {
	store     *TemplateStore
	threshold float64
	scales    []float64 // 从大到小
}

// MatcherOption 匹配器选项
type MatcherOption func(*MultiScaleMatcher)

// WithThreshold 设置匹配阈值
func WithThreshold(threshold float64) MatcherOption {
	return func(m *MultiScaleMatcher) {
		m.threshold = threshold
	}
}

// WithScales 指定缩放因子列表（总是从大到小遍历）
func WithScales(scales ...float64) MatcherOption {
	return func(m *MultiScaleMatcher) {
		m.scales = descending(scales)
	}
}

// WithScaleRange 在 [min, max] 内均匀生成 n 个缩放因子
func WithScaleRange(min, max float64, n int) MatcherOption {
	return func(m *MultiScaleMatcher) {
		m.scales = LinearScales(min, max, n)
	}
}

// LinearScales 生成 [min, max] 内均匀分布的 n 个缩放因子，从大到小
func LinearScales(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{max}
	}
	scales := floats.Span(make([]float64, n), min, max)
	return descending(scales)
}

// NewMultiScaleMatcher 创建多尺度模板匹配器
func NewMultiScaleMatcher(store *TemplateStore, opts ...MatcherOption) *MultiScaleMatcher {
	m := &MultiScaleMatcher{
		store:     store,
		threshold: DefaultThreshold,
		scales:    LinearScales(DefaultScaleMin, DefaultScaleMax, DefaultScaleCount),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold 匹配阈值
func (m *MultiScaleMatcher) Threshold() float64 {
	return m.threshold
}

// Scales 缩放因子（从大到小）
func (m *MultiScaleMatcher) Scales() []float64 {
	return append([]float64(nil), m.scales...)
}

// Match 用指定模板在灰度图上做多尺度匹配
// 返回匹配点最多的尺度；所有尺度都小于模板时返回 ScaleExhaustedError，
// 有可用尺度但没有匹配点时返回空 Points
func (m *MultiScaleMatcher) Match(key string, gray gocv.Mat) (*ScaleMatch, error) {
	startTime := time.Now()

	if gray.Empty() {
		return nil, ErrEmptyImage
	}

	var best *ScaleMatch
	err := m.store.Use(key, func(t *Template) error {
		var err error
		best, err = m.multiScaleSearch(t, gray)
		return err
	})
	if err != nil {
		return nil, err
	}

	best.Time = float64(time.Since(startTime).Microseconds()) / 1000
	logger.Debug("最佳匹配: %s %d 个点, 比例 %.4f, 平均得分 %.3f",
		key, len(best.Points), best.Ratio, MeanScore(best.Points))
	logger.LogEvent("MTCH", true, best.Time,
		fmt.Sprintf("%s | %d 点 | 尺度 %.3f | 尝试 %d", key, len(best.Points), best.Scale, best.ScalesTried))
	return best, nil
}

// multiScaleSearch 多尺度搜索核心算法
func (m *MultiScaleMatcher) multiScaleSearch(t *Template, gray gocv.Mat) (*ScaleMatch, error) {
	srcW, srcH := gray.Cols(), gray.Rows()
	tw, th := t.Width(), t.Height()

	var best *ScaleMatch
	tried := 0

	for _, scale := range m.scales {
		resizedW, resizedH := scaledSize(srcW, srcH, scale)

		// 截图不能小于模板，继续缩小也不可能匹配
		if resizedH < th || resizedW < tw {
			break
		}
		ratio := float64(srcW) / float64(resizedW)

		points, err := m.matchAtSize(t, gray, resizedW, resizedH)
		if err != nil {
			return nil, err
		}
		tried++

		// 匹配点越多视为越好（没有真值可用，可能出错）
		if best == nil || len(best.Points) < len(points) {
			best = &ScaleMatch{
				Key:            t.Key,
				Points:         points,
				Ratio:          ratio,
				Scale:          scale,
				TemplateWidth:  tw,
				TemplateHeight: th,
			}
		}
	}

	if best == nil {
		return nil, &ScaleExhaustedError{
			Key:          t.Key,
			ImageSize:    [2]int{srcW, srcH},
			TemplateSize: [2]int{tw, th},
		}
	}
	best.ScalesTried = tried
	return best, nil
}

// matchAtSize 在指定尺寸下匹配
func (m *MultiScaleMatcher) matchAtSize(t *Template, gray gocv.Mat, w, h int) ([]MatchPoint, error) {
	source := gray
	if w != gray.Cols() || h != gray.Rows() {
		source = ResizeImage(gray, w, h)
		defer source.Close()
	}

	points, err := NewTemplateMatching(t.Mat, source, m.threshold).FindAllPoints()
	if err != nil {
		return nil, fmt.Errorf("模板 %s 在 %dx%d 匹配失败: %w", t.Key, w, h, err)
	}
	return points, nil
}

// MeanScore 匹配点平均得分
func MeanScore(points []MatchPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	scores := make([]float64, len(points))
	for i, p := range points {
		scores[i] = p.Score
	}
	return stat.Mean(scores, nil)
}

func descending(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
