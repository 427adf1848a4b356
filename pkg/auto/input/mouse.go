// Package input 提供鼠标操作，Mouse 实现 field.Actuator
package input

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/sweeper/pkg/auto"
)

// 鼠标按键
const (
	ButtonLeft  = "left"
	ButtonRight = "right"
)

// Mouse 使用 robotgo 操作鼠标，坐标均为截图像素
type Mouse struct {
	// Button 点击使用的按键，默认左键
	Button string
	// Settle 移动后点击前的等待时间
	Settle time.Duration
	// Smooth 是否平滑移动
	Smooth bool
}

// NewMouse 创建左键点击的鼠标
func NewMouse() *Mouse {
	return &Mouse{Button: ButtonLeft, Settle: 50 * time.Millisecond}
}

// MoveTo 移动鼠标到指定位置
func (m *Mouse) MoveTo(x, y int) error {
	inputX, inputY := auto.NormalizePointForInput(x, y)
	if m.Smooth {
		if !robotgo.MoveSmooth(inputX, inputY) {
			return fmt.Errorf("移动鼠标失败: (%d, %d)", x, y)
		}
		return nil
	}
	robotgo.Move(inputX, inputY)
	return nil
}

// Click 在指定位置点击
func (m *Mouse) Click(x, y int) error {
	curX, curY := GetMousePosition()
	if curX != x || curY != y {
		if err := m.MoveTo(x, y); err != nil {
			return err
		}
	}
	if m.Settle > 0 {
		time.Sleep(m.Settle)
	}

	btn := m.Button
	if btn == "" {
		btn = ButtonLeft
	}
	robotgo.Click(btn, false)
	return nil
}

// GetMousePosition 获取鼠标位置（截图像素）
func GetMousePosition() (x, y int) {
	inputX, inputY := robotgo.Location()
	return auto.NormalizePointForScreen(inputX, inputY)
}
