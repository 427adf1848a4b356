// Package permissions 检查截图和模拟点击所需的系统权限（macOS 需要单独授权）
package permissions

import "strings"

// PermissionStatus 权限状态
type PermissionStatus struct {
	// Accessibility 辅助功能，用于模拟鼠标点击
	Accessibility bool `json:"accessibility"`
	// ScreenRecording 屏幕录制，用于截取游戏窗口
	ScreenRecording bool `json:"screen_recording"`
	AllGranted      bool `json:"all_granted"`
}

func newStatus(accessibility, screenRecording bool) *PermissionStatus {
	return &PermissionStatus{
		Accessibility:   accessibility,
		ScreenRecording: screenRecording,
		AllGranted:      accessibility && screenRecording,
	}
}

// Instructions 缺失权限的处理说明，全部授权时返回空字符串
func (s *PermissionStatus) Instructions() string {
	if s.AllGranted {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n\n")
	if !s.ScreenRecording {
		b.WriteString("- 屏幕录制 (用于截取游戏窗口)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 屏幕录制\n")
	}
	if !s.Accessibility {
		b.WriteString("- 辅助功能 (用于点击格子)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 辅助功能\n")
	}
	b.WriteString("\n授权后需要重启应用才能生效。")
	return b.String()
}
