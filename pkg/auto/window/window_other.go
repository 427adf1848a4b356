//go:build !windows

package window

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/sweeper/pkg/auto"
)

// findPlatform 遍历进程标题查找窗口
func findPlatform(title string) (*WindowInfo, error) {
	return findRobotgo(title)
}

func findRobotgo(title string) (*WindowInfo, error) {
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
	return byPIDPlatform(c.pid)
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

// activatePlatform 使用 robotgo 激活窗口
func activatePlatform(w *WindowInfo) error {
	if err := robotgo.ActivePid(w.PID); err != nil {
		return fmt.Errorf("激活窗口失败: %w", err)
	}
	return nil
}

func refreshPlatform(w *WindowInfo) (*WindowInfo, error) {
	return byPIDPlatform(w.PID)
}
