package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/auto"
	"github.com/zoeyai/sweeper/pkg/auto/screen"
	"github.com/zoeyai/sweeper/pkg/auto/window"
	"github.com/zoeyai/sweeper/pkg/config"
	"github.com/zoeyai/sweeper/pkg/permissions"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 命令行参数
	var (
		title       = flag.String("title", "", "游戏窗口标题")
		procName    = flag.String("process", "", "游戏进程名 (优先于窗口标题)")
		resourceDir = flag.String("resources", "", "模板图片目录")
		keys        = flag.String("keys", "", "模板键，逗号分隔；all 表示全部模板并按得分合并")
		threshold   = flag.Float64("threshold", 0, "匹配阈值 (0-1]")
		imagePath   = flag.String("image", "", "识别一张截图文件后退出")
		once        = flag.Bool("once", false, "只识别一轮")
		clickIndex  = flag.Int("click", -1, "识别一轮后点击第 N 个格子 (行优先, 从 0 开始)")
		debugWindow = flag.Bool("debug-window", false, "显示叠加层调试窗口")
		snapshotDir = flag.String("snapshot-dir", "", "叠加层快照保存目录")
		backend     = flag.String("backend", "", "截图后端 (robotgo|screenshot)")
		wait        = flag.Duration("wait", 0, "等待游戏窗口出现的最长时间")
		jsonOutput  = flag.Bool("json", false, "以 JSON 输出识别结果")
		logLevel    = flag.String("log-level", "", "日志级别 (DEBUG|INFO|WARN|ERROR)")
		saveConfig  = flag.Bool("save", false, "保存配置到本地")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}
	if *showHelp {
		printHelp()
		return
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[WARN] 加载配置失败: %v\n", err)
	}

	// 命令行参数优先级高于配置文件
	if *title != "" {
		cfg.WindowTitle = *title
	}
	if *procName != "" {
		cfg.ProcessName = *procName
	}
	if *resourceDir != "" {
		cfg.ResourceDir = *resourceDir
	}
	if *keys != "" {
		if *keys == "all" {
			cfg.Classify = true
		} else {
			cfg.Classify = false
			cfg.TemplateKey = *keys
		}
	}
	if *threshold != 0 {
		cfg.Threshold = *threshold
	}
	if *debugWindow {
		cfg.DebugWindow = true
	}
	if *snapshotDir != "" {
		cfg.SnapshotDir = *snapshotDir
	}
	if *backend != "" {
		cfg.CaptureBackend = *backend
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("[ERROR] 配置无效: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg); err != nil {
		fmt.Printf("[WARN] %v\n", err)
	}
	defer logger.Default().Close()

	if *saveConfig {
		if err := config.Save(cfg); err != nil {
			fmt.Printf("[WARN] 保存配置失败: %v\n", err)
		} else {
			fmt.Printf("[INFO] 配置已保存到 %s\n", config.GetDefaultManager().GetConfigFile())
		}
	}

	fmt.Println("========================================")
	fmt.Printf("  Sweeper v%s\n", Version)
	fmt.Println("========================================")

	if *imagePath == "" {
		// 离线识别截图文件时不需要系统权限
		if runtime.GOOS == "darwin" {
			checkMacOSPermissions()
		}
		printScreenInfo()
		if err := waitForWindow(cfg, *wait); err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			os.Exit(1)
		}
	}

	app, err := newApp(cfg, *imagePath)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer app.Close()
	app.jsonOutput = *jsonOutput

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *clickIndex >= 0:
		err = app.clickCell(ctx, *clickIndex)
	case *imagePath != "" || *once:
		err = app.runOnce(ctx)
	default:
		fmt.Println("[INFO] 按 Ctrl+C 退出")
		err = app.run(ctx)
	}
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// setupLogger 按配置设置日志级别和日志文件
func setupLogger(cfg *config.SweeperConfig) error {
	logger.Default().SetLevel(logger.ParseLevel(strings.TrimSpace(cfg.LogLevel)))
	if cfg.LogFile != "" {
		if err := logger.Default().SetFile(cfg.LogFile); err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
	}
	return nil
}

// printScreenInfo 打印屏幕信息
func printScreenInfo() {
	w, h := screen.GetScreenSize()
	fmt.Printf("[INFO] 屏幕: %dx%d, 显示器: %d, DPI 缩放: %.2f\n",
		w, h, screen.GetDisplayCount(), auto.GetDPIScale())
}

// waitForWindow 等待游戏窗口出现，按进程查找时跳过
func waitForWindow(cfg *config.SweeperConfig, timeout time.Duration) error {
	if timeout <= 0 || cfg.ProcessName != "" {
		return nil
	}
	fmt.Printf("[INFO] 等待窗口: %s\n", cfg.WindowTitle)
	w, err := window.WaitFor(cfg.WindowTitle, timeout, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("等待窗口失败: %w", err)
	}
	fmt.Printf("[INFO] 找到窗口: %s (PID %d)\n", w.Title, w.PID)
	return nil
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("Sweeper v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("Sweeper - 扫雷类游戏格子识别工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  sweeper [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 循环识别窗口中未翻开的格子，并显示调试窗口")
	fmt.Println("  sweeper -title Minesweeper -debug-window")
	fmt.Println()
	fmt.Println("  # 对截图文件识别全部格子类型，输出 JSON")
	fmt.Println("  sweeper -image board.png -keys all -json")
	fmt.Println()
	fmt.Println("  # 保存常用配置")
	fmt.Println("  sweeper -title Minesweeper -resources ./resources -save")
	fmt.Println()
	fmt.Printf("配置文件位置: %s\n", config.GetDefaultManager().GetConfigFile())
	fmt.Println("环境变量: SWEEPER_THRESHOLD, SWEEPER_WINDOW_TITLE 等 (SWEEPER_ + 配置项大写)")
}

// checkMacOSPermissions 检查 macOS 权限
func checkMacOSPermissions() {
	fmt.Println("[INFO] 正在检查 macOS 权限...")
	status := permissions.CheckPermissions()

	fmt.Printf("[INFO] 辅助功能权限: %v\n", status.Accessibility)
	fmt.Printf("[INFO] 屏幕录制权限: %v\n", status.ScreenRecording)

	if status.AllGranted {
		return
	}

	fmt.Println()
	fmt.Println("[WARN] ========== 缺少权限 ==========")
	fmt.Println(status.Instructions())
	fmt.Println("[WARN] ==================================")
	fmt.Println()
	if !status.Accessibility {
		permissions.RequestAccessibilityPermission()
	}
	permissions.OpenSettings(status)
}
