package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSweeperConfig(t *testing.T) {
	config := DefaultSweeperConfig()

	if config.WindowTitle != "Minesweeper" {
		t.Errorf("默认 WindowTitle 应为 Minesweeper, 实际为 %s", config.WindowTitle)
	}
	if config.Threshold != 0.8 {
		t.Errorf("默认 Threshold 应为 0.8, 实际为 %v", config.Threshold)
	}
	if config.ScaleCount != 30 || config.ScaleMin != 0.1 || config.ScaleMax != 1.0 {
		t.Errorf("默认缩放范围错误: %d [%v, %v]", config.ScaleCount, config.ScaleMin, config.ScaleMax)
	}
	if config.TemplateKey != "udark" {
		t.Errorf("默认 TemplateKey 应为 udark, 实际为 %s", config.TemplateKey)
	}
	if config.SettleDelay() != 100*time.Millisecond {
		t.Errorf("默认 SettleDelay 应为 100ms, 实际为 %v", config.SettleDelay())
	}
	if err := config.Validate(); err != nil {
		t.Errorf("默认配置应有效: %v", err)
	}
}

func TestManagerLoadMissingFile(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())

	config, err := manager.Load()
	if err != nil {
		t.Fatalf("配置文件不存在时不应报错: %v", err)
	}
	if *config != *DefaultSweeperConfig() {
		t.Errorf("配置文件不存在时应返回默认配置: %+v", config)
	}
}

func TestManagerSaveAndLoad(t *testing.T) {
	// 使用临时目录
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	if manager.Exists() {
		t.Error("初始时配置文件不应存在")
	}

	config := DefaultSweeperConfig()
	config.WindowTitle = "扫雷"
	config.Threshold = 0.9
	config.ScaleCount = 10
	config.Classify = true
	config.Contrast = 20
	config.CaptureBackend = CaptureScreenshot
	config.SnapshotDir = "snapshots"

	if err := manager.Save(config); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	if !manager.Exists() {
		t.Error("保存后配置文件应存在")
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if *loaded != *config {
		t.Errorf("配置不匹配:\n期望 %+v\n实际 %+v", config, loaded)
	}
}

func TestManagerPartialFile(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	data := []byte(`{"threshold": 0.75, "template_key": "ulight"}`)
	if err := os.WriteFile(manager.GetConfigFile(), data, 0644); err != nil {
		t.Fatal(err)
	}

	config, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if config.Threshold != 0.75 || config.TemplateKey != "ulight" {
		t.Errorf("文件中的值未生效: %+v", config)
	}
	if config.WindowTitle != "Minesweeper" {
		t.Errorf("缺省字段应使用默认值, 实际为 %s", config.WindowTitle)
	}
}

func TestManagerEnvOverride(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())
	t.Setenv("SWEEPER_THRESHOLD", "0.95")
	t.Setenv("SWEEPER_WINDOW_TITLE", "Mines")

	config, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if config.Threshold != 0.95 {
		t.Errorf("环境变量应覆盖 threshold, 实际为 %v", config.Threshold)
	}
	if config.WindowTitle != "Mines" {
		t.Errorf("环境变量应覆盖 window_title, 实际为 %s", config.WindowTitle)
	}
}

func TestManagerInvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	config, err := manager.Load()
	if err == nil {
		t.Error("损坏的配置文件应返回错误")
	}
	if config == nil || config.WindowTitle != "Minesweeper" {
		t.Error("出错时应返回默认配置")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SweeperConfig)
	}{
		{"阈值为 0", func(c *SweeperConfig) { c.Threshold = 0 }},
		{"阈值大于 1", func(c *SweeperConfig) { c.Threshold = 1.2 }},
		{"尺度数量为 0", func(c *SweeperConfig) { c.ScaleCount = 0 }},
		{"缩放范围颠倒", func(c *SweeperConfig) { c.ScaleMin, c.ScaleMax = 1, 0.5 }},
		{"未知后端", func(c *SweeperConfig) { c.CaptureBackend = "x11" }},
		{"对比度越界", func(c *SweeperConfig) { c.Contrast = 150 }},
		{"轮询间隔为 0", func(c *SweeperConfig) { c.PollIntervalMs = 0 }},
		{"轮询间隔为负数", func(c *SweeperConfig) { c.PollIntervalMs = -1 }},
		{"等待时间为负数", func(c *SweeperConfig) { c.SettleDelayMs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultSweeperConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("应返回校验错误")
			}
		})
	}
}

func TestManagerClear(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	if err := manager.Clear(); err != nil {
		t.Errorf("配置不存在时 Clear 不应报错: %v", err)
	}
	if err := manager.Save(DefaultSweeperConfig()); err != nil {
		t.Fatal(err)
	}
	if err := manager.Clear(); err != nil {
		t.Fatalf("清除配置失败: %v", err)
	}
	if manager.Exists() {
		t.Error("清除后配置文件不应存在")
	}
}
