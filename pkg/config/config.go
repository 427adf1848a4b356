package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// 截图后端
const (
	CaptureRobotgo    = "robotgo"
	CaptureScreenshot = "screenshot"
)

// SweeperConfig 运行配置
type SweeperConfig struct {
	// WindowTitle 游戏窗口标题
	WindowTitle string `json:"window_title" mapstructure:"window_title"`
	// ProcessName 游戏进程名，非空时优先按进程查找窗口
	ProcessName string `json:"process_name" mapstructure:"process_name"`
	// ResourceDir 模板图片目录
	ResourceDir string `json:"resource_dir" mapstructure:"resource_dir"`
	// TemplateKey 单模板模式使用的模板键
	TemplateKey string `json:"template_key" mapstructure:"template_key"`
	// Classify 为 true 时对所有模板匹配并按得分合并
	Classify bool `json:"classify" mapstructure:"classify"`

	Threshold  float64 `json:"threshold" mapstructure:"threshold"`
	ScaleCount int     `json:"scale_count" mapstructure:"scale_count"`
	ScaleMin   float64 `json:"scale_min" mapstructure:"scale_min"`
	ScaleMax   float64 `json:"scale_max" mapstructure:"scale_max"`
	// Contrast 截图预处理对比度调整 (-100, 100)，0 表示不处理
	Contrast float32 `json:"contrast" mapstructure:"contrast"`

	SettleDelayMs  int    `json:"settle_delay_ms" mapstructure:"settle_delay_ms"`
	PollIntervalMs int    `json:"poll_interval_ms" mapstructure:"poll_interval_ms"`
	CaptureBackend string `json:"capture_backend" mapstructure:"capture_backend"`

	DebugWindow bool   `json:"debug_window" mapstructure:"debug_window"`
	SnapshotDir string `json:"snapshot_dir" mapstructure:"snapshot_dir"`

	LogLevel string `json:"log_level" mapstructure:"log_level"`
	LogFile  string `json:"log_file" mapstructure:"log_file"`
}

// DefaultSweeperConfig 默认配置
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		WindowTitle:    "Minesweeper",
		ResourceDir:    "resources",
		TemplateKey:    "udark",
		Threshold:      0.8,
		ScaleCount:     30,
		ScaleMin:       0.1,
		ScaleMax:       1.0,
		SettleDelayMs:  100,
		PollIntervalMs: 1000,
		CaptureBackend: CaptureRobotgo,
		LogLevel:       "INFO",
	}
}

// SettleDelay 聚焦窗口后等待重绘的时间
func (c *SweeperConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// PollInterval 两次识别之间的间隔
func (c *SweeperConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Validate 检查配置取值
func (c *SweeperConfig) Validate() error {
	var errs []error
	if c.Threshold <= 0 || c.Threshold > 1 {
		errs = append(errs, fmt.Errorf("threshold 应在 (0, 1] 之间: %v", c.Threshold))
	}
	if c.ScaleCount < 1 {
		errs = append(errs, fmt.Errorf("scale_count 至少为 1: %d", c.ScaleCount))
	}
	if c.ScaleMin <= 0 || c.ScaleMin > c.ScaleMax {
		errs = append(errs, fmt.Errorf("缩放范围无效: [%v, %v]", c.ScaleMin, c.ScaleMax))
	}
	if c.Contrast < -100 || c.Contrast > 100 {
		errs = append(errs, fmt.Errorf("contrast 应在 [-100, 100] 之间: %v", c.Contrast))
	}
	switch c.CaptureBackend {
	case CaptureRobotgo, CaptureScreenshot:
	default:
		errs = append(errs, fmt.Errorf("未知截图后端: %q", c.CaptureBackend))
	}
	if c.PollIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval_ms 必须大于 0: %d", c.PollIntervalMs))
	}
	if c.SettleDelayMs < 0 {
		errs = append(errs, fmt.Errorf("settle_delay_ms 不能为负数: %d", c.SettleDelayMs))
	}
	return errors.Join(errs...)
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器，配置位于 ~/.sweeper/config.json
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".sweeper"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// newViper 创建带默认值和环境变量覆盖的 viper 实例
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("SWEEPER")
	v.AutomaticEnv()

	defaults := DefaultSweeperConfig()
	v.SetDefault("window_title", defaults.WindowTitle)
	v.SetDefault("process_name", defaults.ProcessName)
	v.SetDefault("resource_dir", defaults.ResourceDir)
	v.SetDefault("template_key", defaults.TemplateKey)
	v.SetDefault("classify", defaults.Classify)
	v.SetDefault("threshold", defaults.Threshold)
	v.SetDefault("scale_count", defaults.ScaleCount)
	v.SetDefault("scale_min", defaults.ScaleMin)
	v.SetDefault("scale_max", defaults.ScaleMax)
	v.SetDefault("contrast", defaults.Contrast)
	v.SetDefault("settle_delay_ms", defaults.SettleDelayMs)
	v.SetDefault("poll_interval_ms", defaults.PollIntervalMs)
	v.SetDefault("capture_backend", defaults.CaptureBackend)
	v.SetDefault("debug_window", defaults.DebugWindow)
	v.SetDefault("snapshot_dir", defaults.SnapshotDir)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", defaults.LogFile)
	return v
}

// Load 加载配置
// 优先级: 环境变量 SWEEPER_* > 配置文件 > 默认值；文件不存在时不报错
func (m *Manager) Load() (*SweeperConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v := newViper()
	if _, err := os.Stat(m.configFile); err == nil {
		v.SetConfigFile(m.configFile)
		if err := v.ReadInConfig(); err != nil {
			return DefaultSweeperConfig(), fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config SweeperConfig
	if err := v.Unmarshal(&config); err != nil {
		return DefaultSweeperConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := config.Validate(); err != nil {
		return &config, fmt.Errorf("配置无效: %w", err)
	}

	return &config, nil
}

// Save 保存配置
func (m *Manager) Save(config *SweeperConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*SweeperConfig, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(config *SweeperConfig) error {
	return defaultManager.Save(config)
}

// Clear 使用默认管理器清除配置
func Clear() error {
	return defaultManager.Clear()
}
