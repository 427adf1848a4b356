// Package display 提供叠加层的调试显示，均实现 field.Display
package display

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/field"
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// Window 用 OpenCV 窗口显示叠加层
type Window struct {
	title  string
	window *gocv.Window
	// Delay 每帧等待按键的毫秒数
	Delay int
}

// NewWindow 创建调试窗口
func NewWindow(title string) *Window {
	return &Window{title: title, window: gocv.NewWindow(title), Delay: 1}
}

// Show 显示叠加层
func (w *Window) Show(overlay gocv.Mat, cells []cv.Cell) error {
	if w.window == nil {
		return fmt.Errorf("窗口已关闭: %s", w.title)
	}
	w.window.IMShow(overlay)
	w.window.WaitKey(w.Delay)
	return nil
}

// Close 关闭窗口
func (w *Window) Close() error {
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}

// Snapshot 把带标签的叠加层保存为 PNG
type Snapshot struct {
	dir string

	mu  sync.Mutex
	seq int
	now func() time.Time
}

// NewSnapshot 创建快照保存器
func NewSnapshot(dir string) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建快照目录失败: %w", err)
	}
	return &Snapshot{dir: dir, now: time.Now}, nil
}

// Show 保存叠加层
func (s *Snapshot) Show(overlay gocv.Mat, cells []cv.Cell) error {
	_, err := s.Save(overlay, cells)
	return err
}

// Save 保存叠加层并返回文件路径
func (s *Snapshot) Save(overlay gocv.Mat, cells []cv.Cell) (string, error) {
	img, err := cv.MatToImage(overlay)
	if err != nil {
		return "", err
	}
	labeled, err := field.AnnotateLabels(img, cells, 10)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.seq++
	name := fmt.Sprintf("overlay_%s_%04d.png", s.now().Format("20060102_150405"), s.seq)
	s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建快照文件失败: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, labeled); err != nil {
		return "", fmt.Errorf("编码快照失败: %w", err)
	}
	logger.Debug("保存快照: %s (%d 个格子)", path, len(cells))
	return path, nil
}

// Multi 依次调用多个显示，返回第一个错误
type Multi []field.Display

// Show 实现 field.Display
func (m Multi) Show(overlay gocv.Mat, cells []cv.Cell) error {
	var first error
	for _, d := range m {
		if err := d.Show(overlay, cells); err != nil && first == nil {
			first = err
		}
	}
	return first
}
