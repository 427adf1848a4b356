package screen

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zoeyai/sweeper/pkg/auto"
	"github.com/zoeyai/sweeper/pkg/auto/window"
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

type fakeBackend struct {
	region auto.Region
	calls  int
}

func (f *fakeBackend) CaptureScreen() (image.Image, error) {
	f.calls++
	return image.NewRGBA(image.Rect(0, 0, 64, 48)), nil
}

func (f *fakeBackend) CaptureRegion(r auto.Region) (image.Image, error) {
	f.calls++
	f.region = r
	return image.NewRGBA(image.Rect(0, 0, r.Width, r.Height)), nil
}

func TestNewBackend(t *testing.T) {
	if b, err := NewBackend(""); err != nil || b == nil {
		t.Errorf("默认后端创建失败: %v", err)
	}
	if _, err := NewBackend("screenshot"); err != nil {
		t.Errorf("screenshot 后端创建失败: %v", err)
	}
	if _, err := NewBackend("x11"); err == nil {
		t.Error("未知后端应返回错误")
	}
}

func TestScreenCapturer(t *testing.T) {
	backend := &fakeBackend{}

	c := &ScreenCapturer{Backend: backend}
	img, origin, err := c.Capture()
	if err != nil || img.Bounds().Dx() != 64 || origin != (cv.Point{}) {
		t.Errorf("全屏截图错误: %v %v %v", img.Bounds(), origin, err)
	}

	region := auto.Region{X: 10, Y: 20, Width: 30, Height: 40}
	c = &ScreenCapturer{Backend: backend, Region: &region}
	img, origin, err = c.Capture()
	if err != nil {
		t.Fatal(err)
	}
	if origin != (cv.Point{X: 10, Y: 20}) || backend.region != region || img.Bounds().Dy() != 40 {
		t.Errorf("区域截图错误: origin=%v region=%v", origin, backend.region)
	}
}

func TestWindowCapturer(t *testing.T) {
	backend := &fakeBackend{}
	c := NewWindowCapturer(backend, "Minesweeper", "", 100*time.Millisecond)

	bounds := auto.Region{X: 200, Y: 100, Width: 320, Height: 240}
	var order []string
	var slept time.Duration
	c.find = func() (*window.WindowInfo, error) {
		order = append(order, "find")
		return &window.WindowInfo{Title: "Minesweeper", Bounds: bounds}, nil
	}
	c.activate = func(*window.WindowInfo) error {
		order = append(order, "activate")
		return errors.New("拒绝访问")
	}
	c.sleep = func(d time.Duration) {
		order = append(order, "sleep")
		slept = d
	}

	img, origin, err := c.Capture()
	if err != nil {
		t.Fatalf("激活失败不应中断截图: %v", err)
	}
	if len(order) != 3 || order[0] != "find" || order[1] != "activate" || order[2] != "sleep" {
		t.Errorf("调用顺序错误: %v", order)
	}
	if slept != 100*time.Millisecond {
		t.Errorf("等待时间错误: %v", slept)
	}
	if origin != (cv.Point{X: 200, Y: 100}) || backend.region != bounds {
		t.Errorf("截图区域错误: origin=%v region=%v", origin, backend.region)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("截图尺寸错误: %v", img.Bounds())
	}
}

func TestWindowCapturerResize(t *testing.T) {
	backend := &fakeBackend{}
	c := NewWindowCapturer(backend, "Minesweeper", "", 0)

	bounds := auto.Region{X: 0, Y: 0, Width: 320, Height: 240}
	c.find = func() (*window.WindowInfo, error) {
		return &window.WindowInfo{Bounds: bounds}, nil
	}
	c.activate = func(*window.WindowInfo) error { return nil }
	resets := 0
	c.resetScale = func() { resets++ }

	for i := 0; i < 2; i++ {
		if _, _, err := c.Capture(); err != nil {
			t.Fatal(err)
		}
	}
	if resets != 0 {
		t.Errorf("尺寸不变时不应重置缩放: %d", resets)
	}

	bounds.X, bounds.Width = 50, 640
	if _, _, err := c.Capture(); err != nil {
		t.Fatal(err)
	}
	if resets != 1 {
		t.Errorf("尺寸变化后应重置一次缩放: %d", resets)
	}
}

func TestWindowCapturerNotFound(t *testing.T) {
	backend := &fakeBackend{}
	c := NewWindowCapturer(backend, "Minesweeper", "", 0)
	c.find = func() (*window.WindowInfo, error) { return nil, window.ErrNotFound }

	if _, _, err := c.Capture(); !errors.Is(err, window.ErrNotFound) {
		t.Errorf("应返回 ErrNotFound, 实际 %v", err)
	}
	if backend.calls != 0 {
		t.Error("找不到窗口时不应截图")
	}
}

func TestFileCapturer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	src.Set(3, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c := &FileCapturer{Path: path, Origin: cv.Point{X: 5, Y: 6}}
	img, origin, err := c.Capture()
	if err != nil {
		t.Fatalf("读取截图失败: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("尺寸错误: %v", img.Bounds())
	}
	if r, g, b, _ := img.At(3, 4).RGBA(); r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("像素错误: %d %d %d", r>>8, g>>8, b>>8)
	}
	if origin != (cv.Point{X: 5, Y: 6}) {
		t.Errorf("origin 错误: %v", origin)
	}

	if _, _, err := (&FileCapturer{Path: path + ".missing"}).Capture(); err == nil {
		t.Error("文件不存在应返回错误")
	}
}
