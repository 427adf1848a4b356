//go:build windows

package window

import (
	"fmt"
	"syscall"

	"github.com/go-vgo/robotgo"
	"github.com/lxn/win"

	"github.com/zoeyai/sweeper/pkg/auto"
)

// findPlatform 先用 FindWindow 精确匹配标题，找不到再遍历进程做部分匹配
func findPlatform(title string) (*WindowInfo, error) {
	name, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return nil, fmt.Errorf("窗口标题无效: %w", err)
	}
	if hwnd := win.FindWindow(nil, name); hwnd != 0 {
		return fromHandle(hwnd, title)
	}

	pids, err := robotgo.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}
	cands := make([]candidate, 0, len(pids))
	for _, pid := range pids {
		if t := robotgo.GetTitle(pid); t != "" {
			cands = append(cands, candidate{pid: pid, title: t})
		}
	}
	c, ok := pickByTitle(cands, title)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
	}

	name, _ = syscall.UTF16PtrFromString(c.title)
	if hwnd := win.FindWindow(nil, name); hwnd != 0 {
		return fromHandle(hwnd, c.title)
	}
	return byPIDPlatform(c.pid)
}

// fromHandle 读取窗口边界和所属进程
func fromHandle(hwnd win.HWND, title string) (*WindowInfo, error) {
	var rect win.RECT
	if !win.GetWindowRect(hwnd, &rect) {
		return nil, fmt.Errorf("获取窗口边界失败: %s", title)
	}
	var pid uint32
	win.GetWindowThreadProcessId(hwnd, &pid)

	return &WindowInfo{
		PID:   int(pid),
		Title: title,
		Bounds: auto.Region{
			X:      int(rect.Left),
			Y:      int(rect.Top),
			Width:  int(rect.Right - rect.Left),
			Height: int(rect.Bottom - rect.Top),
		},
		Handle: uintptr(hwnd),
	}, nil
}

// byPIDPlatform 按 PID 获取窗口
func byPIDPlatform(pid int) (*WindowInfo, error) {
	x, y, w, h := robotgo.GetBounds(pid)
	bounds := auto.NormalizeRegionForScreen(auto.Region{X: x, Y: y, Width: w, Height: h})
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: 无法获取窗口边界 PID=%d", ErrNotFound, pid)
	}
	return &WindowInfo{
		PID:    pid,
		Title:  robotgo.GetTitle(pid),
		Bounds: bounds,
	}, nil
}

// activatePlatform 还原最小化的窗口并置于前台
func activatePlatform(w *WindowInfo) error {
	if w.Handle == 0 {
		if err := robotgo.ActivePid(w.PID); err != nil {
			return fmt.Errorf("激活窗口失败: %w", err)
		}
		return nil
	}

	hwnd := win.HWND(w.Handle)
	if win.IsIconic(hwnd) {
		win.ShowWindow(hwnd, win.SW_RESTORE)
	}
	if !win.SetForegroundWindow(hwnd) {
		return fmt.Errorf("激活窗口失败: %s", w.Title)
	}
	return nil
}

func refreshPlatform(w *WindowInfo) (*WindowInfo, error) {
	if w.Handle != 0 {
		return fromHandle(win.HWND(w.Handle), w.Title)
	}
	return byPIDPlatform(w.PID)
}
