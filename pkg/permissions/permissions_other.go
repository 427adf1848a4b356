//go:build !darwin

package permissions

// CheckPermissions 非 macOS 系统不需要特殊权限
func CheckPermissions() *PermissionStatus {
	return newStatus(true, true)
}

// RequestAccessibilityPermission 非 macOS 系统直接返回 true
func RequestAccessibilityPermission() bool {
	return true
}

// OpenSettings 非 macOS 系统无操作
func OpenSettings(*PermissionStatus) {}
