package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/auto/display"
	"github.com/zoeyai/sweeper/pkg/auto/input"
	"github.com/zoeyai/sweeper/pkg/auto/screen"
	"github.com/zoeyai/sweeper/pkg/config"
	"github.com/zoeyai/sweeper/pkg/field"
	"github.com/zoeyai/sweeper/pkg/vision"
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// app 组装好的识别程序
type app struct {
	cfg        *config.SweeperConfig
	store      *cv.TemplateStore
	extractor  *field.Extractor
	window     *display.Window
	jsonOutput bool
}

// newApp 按配置创建模板库、截图来源、显示和编排器
func newApp(cfg *config.SweeperConfig, imagePath string) (*app, error) {
	vision.SetOptions(vision.Options{
		Threshold:   cfg.Threshold,
		ScaleCount:  cfg.ScaleCount,
		ScaleMin:    cfg.ScaleMin,
		ScaleMax:    cfg.ScaleMax,
		Contrast:    cfg.Contrast,
		ResourceDir: cfg.ResourceDir,
	})

	store := vision.NewTemplateStore()
	n, err := store.Load(cfg.ResourceDir)
	if err != nil {
		logger.Warn("部分模板加载失败: %v", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("没有可用的模板: %s", cfg.ResourceDir)
	}

	a := &app{cfg: cfg, store: store}

	capturer, err := newCapturer(cfg, imagePath)
	if err != nil {
		store.Close()
		return nil, err
	}

	opts := []field.Option{
		field.WithCapturer(capturer),
		field.WithActuator(input.NewMouse()),
		field.WithFilters(vision.Filters()...),
	}
	if cfg.Classify {
		opts = append(opts, field.WithKeys(vision.AllKeys()...))
	} else {
		opts = append(opts, field.WithKeys(splitKeys(cfg.TemplateKey)...))
	}

	var displays display.Multi
	if cfg.DebugWindow {
		a.window = display.NewWindow("sweeper")
		displays = append(displays, a.window)
	}
	if cfg.SnapshotDir != "" {
		snap, err := display.NewSnapshot(cfg.SnapshotDir)
		if err != nil {
			a.Close()
			return nil, err
		}
		displays = append(displays, snap)
	}
	if len(displays) > 0 {
		opts = append(opts, field.WithDisplay(displays))
	}

	a.extractor = field.NewExtractor(store, vision.NewMatcher(store), opts...)
	return a, nil
}

// newCapturer 选择截图来源：文件 > 窗口
func newCapturer(cfg *config.SweeperConfig, imagePath string) (field.Capturer, error) {
	if imagePath != "" {
		return &screen.FileCapturer{Path: imagePath}, nil
	}
	backend, err := screen.NewBackend(cfg.CaptureBackend)
	if err != nil {
		return nil, err
	}
	return screen.NewWindowCapturer(backend, cfg.WindowTitle, cfg.ProcessName, cfg.SettleDelay()), nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = []string{field.DefaultKey}
	}
	return keys
}

// runOnce 识别一轮并输出
func (a *app) runOnce(ctx context.Context) error {
	result, err := a.extractor.RunCycle(ctx)
	if err != nil {
		return err
	}
	return a.report(result)
}

// run 循环识别直到收到退出信号
func (a *app) run(ctx context.Context) error {
	return a.extractor.Run(ctx, a.cfg.PollInterval(), func(r *field.Result) {
		if err := a.report(r); err != nil {
			logger.Error("输出结果失败: %v", err)
		}
	})
}

// clickCell 识别一轮后点击指定格子
func (a *app) clickCell(ctx context.Context, index int) error {
	result, err := a.extractor.RunCycle(ctx)
	if err != nil {
		return err
	}
	if index >= len(result.Cells) {
		return fmt.Errorf("格子序号超出范围: %d (共 %d 个)", index, len(result.Cells))
	}
	return a.extractor.ClickCell(result, result.Cells[index])
}

// report 输出识别结果
func (a *app) report(r *field.Result) error {
	if a.jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(r)
	}
	fmt.Printf("[RESULT] %d 个格子 (%dx%d, %v)\n", len(r.Cells), r.Size.X, r.Size.Y, r.Elapsed)
	for i, c := range r.Cells {
		p := r.ScreenPoint(c)
		fmt.Printf("  #%-3d %-8s center=(%d,%d) screen=(%d,%d) score=%.3f\n",
			i, c.Key, c.Center.X, c.Center.Y, p.X, p.Y, c.Score)
	}
	return nil
}

// Close 释放资源
func (a *app) Close() {
	var errs []error
	if a.window != nil {
		errs = append(errs, a.window.Close())
	}
	if a.store != nil {
		a.store.Close()
	}
	if err := errors.Join(errs...); err != nil {
		logger.Warn("关闭资源失败: %v", err)
	}
}
