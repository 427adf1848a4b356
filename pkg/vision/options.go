package vision

import (
	"github.com/disintegration/gift"

	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// Options 全局配置选项
type Options struct {
	// 匹配配置
	Threshold  float64 // 匹配阈值，默认 0.8
	ScaleCount int     // 尺度数量，默认 30
	ScaleMin   float64 // 最小缩放因子，默认 0.1
	ScaleMax   float64 // 最大缩放因子，默认 1.0

	// 预处理配置
	Contrast float32 // 对比度调整 (-100, 100)，0 表示不处理

	// 路径配置
	ResourceDir string // 模板资源目录
}

// DefaultOptions 默认配置
var DefaultOptions = Options{
	Threshold:   cv.DefaultThreshold,
	ScaleCount:  cv.DefaultScaleCount,
	ScaleMin:    cv.DefaultScaleMin,
	ScaleMax:    cv.DefaultScaleMax,
	Contrast:    0,
	ResourceDir: "resources",
}

// globalOptions 全局配置实例
var globalOptions = DefaultOptions

// GetOptions 获取当前全局配置
func GetOptions() *Options {
	return &globalOptions
}

// SetOptions 设置全局配置
func SetOptions(opts Options) {
	globalOptions = opts
}

// ResetOptions 重置为默认配置
func ResetOptions() {
	globalOptions = DefaultOptions
}

// Option 配置选项函数类型
type Option func(*findConfig)

// findConfig 单次识别的临时配置
type findConfig struct {
	threshold  float64
	scaleCount int
	scaleMin   float64
	scaleMax   float64
	contrast   float32
}

// defaultFindConfig 从全局配置生成
func defaultFindConfig() *findConfig {
	return &findConfig{
		threshold:  globalOptions.Threshold,
		scaleCount: globalOptions.ScaleCount,
		scaleMin:   globalOptions.ScaleMin,
		scaleMax:   globalOptions.ScaleMax,
		contrast:   globalOptions.Contrast,
	}
}

func newFindConfig(opts []Option) *findConfig {
	cfg := defaultFindConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithThreshold 设置匹配阈值
func WithThreshold(threshold float64) Option {
	return func(c *findConfig) {
		c.threshold = threshold
	}
}

// WithScaleRange 设置缩放范围和尺度数量
func WithScaleRange(min, max float64, n int) Option {
	return func(c *findConfig) {
		c.scaleMin = min
		c.scaleMax = max
		c.scaleCount = n
	}
}

// WithContrast 设置预处理对比度
func WithContrast(contrast float32) Option {
	return func(c *findConfig) {
		c.contrast = contrast
	}
}

// matcherOptions 转换为 cv 匹配器选项
func (c *findConfig) matcherOptions() []cv.MatcherOption {
	return []cv.MatcherOption{
		cv.WithThreshold(c.threshold),
		cv.WithScaleRange(c.scaleMin, c.scaleMax, c.scaleCount),
	}
}

// filters 截图预处理滤镜
func (c *findConfig) filters() []gift.Filter {
	var filters []gift.Filter
	if c.contrast != 0 {
		filters = append(filters, gift.Contrast(c.contrast))
	}
	return filters
}
