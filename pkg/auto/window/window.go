// Package window 提供游戏窗口的查找、激活和边界获取
package window

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/auto"
	"github.com/zoeyai/sweeper/pkg/process"
)

// ErrNotFound 未找到窗口
var ErrNotFound = errors.New("未找到窗口")

// WindowInfo 窗口信息
type WindowInfo struct {
	PID    int         `json:"pid"`
	Title  string      `json:"title"`
	Bounds auto.Region `json:"bounds"`
	// Handle 平台窗口句柄，Windows 下为 HWND，其他平台为 0
	Handle uintptr `json:"-"`
}

// Find 按标题查找窗口
// 优先精确匹配，其次不区分大小写的部分匹配
func Find(title string) (*WindowInfo, error) {
	if title == "" {
		return nil, fmt.Errorf("窗口标题不能为空")
	}
	w, err := findPlatform(title)
	if err != nil {
		return nil, err
	}
	logger.Debug("找到窗口: %q PID=%d %+v", w.Title, w.PID, w.Bounds)
	return w, nil
}

// FindByProcess 按进程名查找窗口
func FindByProcess(name string) (*WindowInfo, error) {
	procs, err := process.FindProcess(name)
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		w, err := byPIDPlatform(p.PID)
		if err == nil && !w.Bounds.Empty() {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: 进程 %s", ErrNotFound, name)
}

// Activate 将窗口置于前台
func Activate(w *WindowInfo) error {
	if w == nil {
		return ErrNotFound
	}
	return activatePlatform(w)
}

// Refresh 重新获取窗口边界（窗口可能被移动）
func Refresh(w *WindowInfo) (*WindowInfo, error) {
	if w == nil {
		return nil, ErrNotFound
	}
	return refreshPlatform(w)
}

// WaitFor 等待窗口出现，timeout 为 0 时只查找一次
func WaitFor(title string, timeout, interval time.Duration) (*WindowInfo, error) {
	deadline := time.Now().Add(timeout)
	for {
		w, err := Find(title)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, ErrNotFound) || time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(interval)
	}
}

// candidate 候选窗口
type candidate struct {
	pid   int
	title string
}

// pickByTitle 从候选窗口中选出最匹配的一个
// 精确匹配优先，否则取标题最短的部分匹配；同等条件下 PID 小的优先
func pickByTitle(cands []candidate, title string) (candidate, bool) {
	query := strings.ToLower(title)

	var partial []candidate
	for _, c := range cands {
		if c.title == title {
			return c, true
		}
		if strings.Contains(strings.ToLower(c.title), query) {
			partial = append(partial, c)
		}
	}
	if len(partial) == 0 {
		return candidate{}, false
	}

	sort.Slice(partial, func(i, j int) bool {
		if len(partial[i].title) != len(partial[j].title) {
			return len(partial[i].title) < len(partial[j].title)
		}
		return partial[i].pid < partial[j].pid
	})
	return partial[0], true
}
