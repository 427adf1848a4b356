// Package screen 提供多种截图来源，均实现 field.Capturer
package screen

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/auto"
	"github.com/zoeyai/sweeper/pkg/auto/window"
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// Backend 截图后端
type Backend interface {
	// CaptureRegion 截取屏幕区域，坐标为截图像素
	CaptureRegion(r auto.Region) (image.Image, error)
	// CaptureScreen 截取主屏幕
	CaptureScreen() (image.Image, error)
}

// RobotgoBackend 使用 robotgo 截图
type RobotgoBackend struct{}

// CaptureScreen 截取全屏
func (RobotgoBackend) CaptureScreen() (image.Image, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	return img, nil
}

// CaptureRegion 截取屏幕区域
func (RobotgoBackend) CaptureRegion(r auto.Region) (image.Image, error) {
	in := auto.NormalizeRegionForInput(r)
	img, err := robotgo.CaptureImg(in.X, in.Y, in.Width, in.Height)
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	return img, nil
}

// DisplayBackend 使用 kbinani/screenshot 截图，不依赖 robotgo 的坐标换算
type DisplayBackend struct {
	// Display 显示器序号
	Display int
}

// CaptureScreen 截取显示器
func (b DisplayBackend) CaptureScreen() (image.Image, error) {
	if n := screenshot.NumActiveDisplays(); b.Display >= n {
		return nil, fmt.Errorf("显示器 %d 不存在 (共 %d 个)", b.Display, n)
	}
	img, err := screenshot.CaptureDisplay(b.Display)
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	return img, nil
}

// CaptureRegion 截取屏幕区域
func (DisplayBackend) CaptureRegion(r auto.Region) (image.Image, error) {
	img, err := screenshot.CaptureRect(r.Rect())
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	return img, nil
}

// NewBackend 按名称创建截图后端: robotgo | screenshot
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", "robotgo":
		return RobotgoBackend{}, nil
	case "screenshot":
		return DisplayBackend{}, nil
	default:
		return nil, fmt.Errorf("未知截图后端: %s", name)
	}
}

// ScreenCapturer 截取整个屏幕或固定区域
type ScreenCapturer struct {
	Backend Backend
	// Region 为 nil 时截取全屏
	Region *auto.Region
}

// Capture 实现 field.Capturer
func (c *ScreenCapturer) Capture() (image.Image, cv.Point, error) {
	if c.Region == nil {
		img, err := c.Backend.CaptureScreen()
		return img, cv.Point{}, err
	}
	img, err := c.Backend.CaptureRegion(*c.Region)
	return img, cv.Point{X: c.Region.X, Y: c.Region.Y}, err
}

// WindowCapturer 截取游戏窗口
// 每次截图前把窗口置于前台并等待 SettleDelay，让窗口完成重绘
type WindowCapturer struct {
	Backend     Backend
	Title       string
	ProcessName string
	SettleDelay time.Duration

	last auto.Region

	// 以下字段便于测试替换
	find       func() (*window.WindowInfo, error)
	activate   func(*window.WindowInfo) error
	sleep      func(time.Duration)
	resetScale func()
}

// NewWindowCapturer 创建窗口截图器，processName 非空时按进程查找
func NewWindowCapturer(backend Backend, title, processName string, settle time.Duration) *WindowCapturer {
	c := &WindowCapturer{
		Backend:     backend,
		Title:       title,
		ProcessName: processName,
		SettleDelay: settle,
		activate:    window.Activate,
		sleep:       time.Sleep,
		resetScale:  auto.ResetCoordinateScaleCache,
	}
	c.find = func() (*window.WindowInfo, error) {
		if c.ProcessName != "" {
			return window.FindByProcess(c.ProcessName)
		}
		return window.Find(c.Title)
	}
	return c
}

// Capture 实现 field.Capturer，origin 为窗口左上角
func (c *WindowCapturer) Capture() (image.Image, cv.Point, error) {
	w, err := c.find()
	if err != nil {
		return nil, cv.Point{}, err
	}
	if err := c.activate(w); err != nil {
		logger.Warn("激活窗口失败, 继续截图: %v", err)
	}
	if c.SettleDelay > 0 {
		c.sleep(c.SettleDelay)
	}

	// 窗口尺寸变化通常意味着切换了显示器或缩放比例
	if !c.last.Empty() && (c.last.Width != w.Bounds.Width || c.last.Height != w.Bounds.Height) {
		logger.Debug("窗口尺寸变化 %dx%d -> %dx%d, 重新检测坐标缩放",
			c.last.Width, c.last.Height, w.Bounds.Width, w.Bounds.Height)
		if c.resetScale != nil {
			c.resetScale()
		}
	}
	c.last = w.Bounds

	img, err := c.Backend.CaptureRegion(w.Bounds)
	if err != nil {
		return nil, cv.Point{}, err
	}
	return img, cv.Point{X: w.Bounds.X, Y: w.Bounds.Y}, nil
}

// FileCapturer 从图片文件读取截图，用于离线调试
type FileCapturer struct {
	Path string
	// Origin 假定的截图左上角屏幕坐标
	Origin cv.Point
}

// Capture 实现 field.Capturer
func (c *FileCapturer) Capture() (image.Image, cv.Point, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, cv.Point{}, fmt.Errorf("打开截图文件失败: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, cv.Point{}, fmt.Errorf("解码截图文件失败: %w", err)
	}
	return img, c.Origin, nil
}

// GetScreenSize 获取屏幕尺寸（物理像素，与截图分辨率一致）
func GetScreenSize() (width, height int) {
	return auto.GetPhysicalScreenSize()
}

// GetDisplayCount 获取显示器数量
func GetDisplayCount() int {
	return screenshot.NumActiveDisplays()
}
