// Package field 识别流程编排：截图 -> 预处理 -> 匹配 -> 去重 -> 坐标还原
//
// 截图、鼠标操作和调试显示都通过接口注入，核心流程可以完全使用内存图像测试。
package field

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/vision"
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// DefaultKey 单模板模式默认使用的模板键
const DefaultKey = "udark"

var (
	// ErrNoCapturer 未配置截图器
	ErrNoCapturer = errors.New("未配置截图器")
	// ErrNoActuator 未配置鼠标操作
	ErrNoActuator = errors.New("未配置鼠标操作")
	// ErrInvalidInterval 轮询间隔不是正数
	ErrInvalidInterval = errors.New("轮询间隔必须大于 0")
)

// Capturer 截图来源
// origin 为截图左上角在屏幕上的坐标，用于把格子坐标换算为屏幕坐标
type Capturer interface {
	Capture() (img image.Image, origin cv.Point, err error)
}

// Actuator 鼠标操作
type Actuator interface {
	MoveTo(x, y int) error
	Click(x, y int) error
}

// Display 调试显示，只用于观察，返回值不影响识别结果
type Display interface {
	Show(overlay gocv.Mat, cells []cv.Cell) error
}

// Result 一次识别的结果
type Result struct {
	// Cells 原图坐标系下的格子
	Cells []cv.Cell `json:"cells"`
	// Origin 截图左上角的屏幕坐标
	Origin cv.Point `json:"origin"`
	// Size 截图尺寸
	Size image.Point `json:"size"`
	// Elapsed 耗时
	Elapsed time.Duration `json:"elapsed"`
}

// Extractor 格子识别编排器
type Extractor struct {
	store    *cv.TemplateStore
	matcher  *cv.MultiScaleMatcher
	capturer Capturer
	actuator Actuator
	display  Display
	keys     []string
	filters  []gift.Filter
	log      *logger.ComponentLogger

	mu   sync.Mutex
	last *Result
}

// Option 编排器选项
type Option func(*Extractor)

// WithCapturer 设置截图来源
func WithCapturer(c Capturer) Option {
	return func(e *Extractor) { e.capturer = c }
}

// WithActuator 设置鼠标操作
func WithActuator(a Actuator) Option {
	return func(e *Extractor) { e.actuator = a }
}

// WithDisplay 设置调试显示
func WithDisplay(d Display) Option {
	return func(e *Extractor) { e.display = d }
}

// WithKeys 设置每轮识别的模板键
// 一个键时只匹配该模板；多个键时逐个匹配并按得分合并
func WithKeys(keys ...string) Option {
	return func(e *Extractor) {
		e.keys = append([]string(nil), keys...)
	}
}

// WithFilters 设置截图预处理滤镜
func WithFilters(filters ...gift.Filter) Option {
	return func(e *Extractor) {
		e.filters = append([]gift.Filter(nil), filters...)
	}
}

// NewExtractor 创建编排器
// matcher 为 nil 时按 vision 全局配置创建
func NewExtractor(store *cv.TemplateStore, matcher *cv.MultiScaleMatcher, opts ...Option) *Extractor {
	if matcher == nil {
		matcher = vision.NewMatcher(store)
	}
	e := &Extractor{
		store:   store,
		matcher: matcher,
		keys:    []string{DefaultKey},
		log:     logger.Component("field"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Keys 每轮识别的模板键
func (e *Extractor) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Extract 识别截图中的一种格子
func (e *Extractor) Extract(img image.Image, key string) ([]cv.Cell, error) {
	prepared, err := cv.PrepareImage(img, e.filters...)
	if err != nil {
		return nil, err
	}
	defer prepared.Close()

	cells, _, err := vision.FindCells(e.matcher, prepared.Gray, key)
	return cells, err
}

// ExtractAll 逐个模板识别并合并，同一位置保留得分最高的模板
func (e *Extractor) ExtractAll(img image.Image, keys []string) ([]cv.Cell, error) {
	prepared, err := cv.PrepareImage(img, e.filters...)
	if err != nil {
		return nil, err
	}
	defer prepared.Close()

	return vision.FindAllCells(e.matcher, prepared.Gray, keys)
}

// extractPrepared 按配置的模板键识别
func (e *Extractor) extractPrepared(prepared *cv.PreparedImage) ([]cv.Cell, error) {
	if len(e.keys) == 1 {
		cells, _, err := vision.FindCells(e.matcher, prepared.Gray, e.keys[0])
		return cells, err
	}
	return vision.FindAllCells(e.matcher, prepared.Gray, e.keys)
}

// RunCycle 执行一轮识别：截图 -> 识别 -> 调试显示
// 出错只影响本轮，调用方在下一轮重试即可
func (e *Extractor) RunCycle(ctx context.Context) (*Result, error) {
	if e.capturer == nil {
		return nil, ErrNoCapturer
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	result, err := e.runCycle()
	elapsed := time.Since(startTime)

	if err != nil {
		logger.LogEvent("CYCL", false, float64(elapsed.Microseconds())/1000, err.Error())
		return nil, err
	}

	result.Elapsed = elapsed
	logger.LogEvent("CYCL", true, float64(elapsed.Microseconds())/1000,
		fmt.Sprintf("%d 个格子 (%dx%d)", len(result.Cells), result.Size.X, result.Size.Y))

	e.mu.Lock()
	e.last = result
	e.mu.Unlock()
	return result, nil
}

func (e *Extractor) runCycle() (*Result, error) {
	img, origin, err := e.capturer.Capture()
	if err != nil {
		return nil, fmt.Errorf("截图失败: %w", err)
	}

	prepared, err := cv.PrepareImage(img, e.filters...)
	if err != nil {
		return nil, err
	}
	defer prepared.Close()

	cells, err := e.extractPrepared(prepared)
	if err != nil {
		return nil, err
	}

	if e.display != nil {
		overlay := DrawOverlay(prepared.Color, cells)
		if err := e.display.Show(overlay, cells); err != nil {
			e.log.Warn("显示叠加层失败: %v", err)
		}
		overlay.Close()
	}

	return &Result{
		Cells:  cells,
		Origin: origin,
		Size:   image.Pt(prepared.Width(), prepared.Height()),
	}, nil
}

// Run 按固定间隔循环识别，直到 ctx 取消
// 单轮错误只记录日志，onResult 可以为 nil
func (e *Extractor) Run(ctx context.Context, interval time.Duration, onResult func(*Result)) error {
	if e.capturer == nil {
		return ErrNoCapturer
	}
	if interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	e.log.Info("开始循环识别, 间隔 %v, 模板 %v", interval, e.keys)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := e.RunCycle(ctx)
		switch {
		case err == nil:
			if onResult != nil {
				onResult(result)
			}
		case ctx.Err() != nil:
			e.log.Info("停止循环识别")
			return nil
		default:
			e.log.Error("本轮识别失败: %v", err)
		}

		select {
		case <-ctx.Done():
			e.log.Info("停止循环识别")
			return nil
		case <-ticker.C:
		}
	}
}

// Last 最近一轮成功识别的结果
func (e *Extractor) Last() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// ScreenPoint 格子中心的屏幕坐标
func (r *Result) ScreenPoint(cell cv.Cell) cv.Point {
	return cv.Point{X: r.Origin.X + cell.Center.X, Y: r.Origin.Y + cell.Center.Y}
}

// ClickCell 点击一轮识别结果中的格子
func (e *Extractor) ClickCell(result *Result, cell cv.Cell) error {
	if e.actuator == nil {
		return ErrNoActuator
	}
	p := result.ScreenPoint(cell)
	if err := e.actuator.MoveTo(p.X, p.Y); err != nil {
		return fmt.Errorf("移动鼠标失败: %w", err)
	}
	if err := e.actuator.Click(p.X, p.Y); err != nil {
		return fmt.Errorf("点击失败: %w", err)
	}
	e.log.Debug("点击格子 %s (%d, %d)", cell.Key, p.X, p.Y)
	return nil
}
