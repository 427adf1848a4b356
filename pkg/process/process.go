// Package process 按进程名定位游戏进程
package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessInfo 进程信息
type ProcessInfo struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// FindProcess 按名称查找进程 (不区分大小写，支持部分匹配)
// 名称完全一致（忽略 .exe 后缀）的排在前面，其余按 PID 升序
func FindProcess(name string) ([]ProcessInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("进程名不能为空")
	}

	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	var matches []ProcessInfo
	for _, proc := range procs {
		procName, err := proc.Name()
		if err != nil {
			continue
		}
		if matchRank(procName, name) < 0 {
			continue
		}
		exe, _ := proc.Exe()
		matches = append(matches, ProcessInfo{
			PID:  int(proc.Pid),
			Name: procName,
			Path: exe,
		})
	}

	sortMatches(matches, name)
	return matches, nil
}

// GetProcessByPID 按 PID 获取进程信息
func GetProcessByPID(pid int) (*ProcessInfo, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("进程不存在: PID=%d", pid)
	}

	name, _ := proc.Name()
	exe, _ := proc.Exe()

	return &ProcessInfo{
		PID:  pid,
		Name: name,
		Path: exe,
	}, nil
}

// IsProcessRunning 检查进程是否正在运行
func IsProcessRunning(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	if err != nil {
		return false
	}
	return running
}

// matchRank 0 表示完全一致，1 表示部分匹配，-1 表示不匹配
func matchRank(procName, query string) int {
	p := trimExe(strings.ToLower(procName))
	q := trimExe(strings.ToLower(query))
	switch {
	case p == q:
		return 0
	case strings.Contains(p, q):
		return 1
	default:
		return -1
	}
}

func trimExe(name string) string {
	return strings.TrimSuffix(name, ".exe")
}

func sortMatches(matches []ProcessInfo, query string) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matchRank(matches[i].Name, query), matchRank(matches[j].Name, query)
		if ri != rj {
			return ri < rj
		}
		return matches[i].PID < matches[j].PID
	})
}
