package cv

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/sweeper/internal/logger"
)

// DefaultTemplatePaths 模板键 -> 资源目录下的相对路径
// u* 为未翻开格子的几种明暗变体，c* 为已翻开格子（空白与数字 1-8）
var DefaultTemplatePaths = map[string]string{
	"udark":   "squares_unchecked/square_dark.png",
	"umedium": "squares_unchecked/square_medium.png",
	"ulight":  "squares_unchecked/square_light.png",
	"c0":      "squares_checked/square_empty.png",
	"c1":      "squares_checked/square_1.png",
	"c2":      "squares_checked/square_2.png",
	"c3":      "squares_checked/square_3.png",
	"c4":      "squares_checked/square_4.png",
	"c5":      "squares_checked/square_5.png",
	"c6":      "squares_checked/square_6.png",
	"c7":      "squares_checked/square_7.png",
	"c8":      "squares_checked/square_8.png",
}

// Template 一种格子外观的灰度模板，加载后只读
type Template struct {
	// Key 模板键
	Key string
	// Path 模板文件路径
	Path string
	// Mat 灰度图 (CV_8UC1)
	Mat gocv.Mat
}

// Width 模板宽度
func (t *Template) Width() int {
	return t.Mat.Cols()
}

// Height 模板高度
func (t *Template) Height() int {
	return t.Mat.Rows()
}

// String 返回字符串表示
func (t *Template) String() string {
	return fmt.Sprintf("Template(%s, %dx%d)", t.Key, t.Width(), t.Height())
}

// TemplateStore 模板库
// 重新加载时先在旁边构建完整集合再整体替换，读取方不会看到半成品
type TemplateStore struct {
	mu        sync.RWMutex
	paths     map[string]string
	templates map[string]*Template
	dir       string
}

// StoreOption 模板库选项
type StoreOption func(*TemplateStore)

// WithTemplatePaths 替换默认的模板路径表
func WithTemplatePaths(paths map[string]string) StoreOption {
	return func(s *TemplateStore) {
		s.paths = make(map[string]string, len(paths))
		for k, v := range paths {
			s.paths[k] = v
		}
	}
}

// NewTemplateStore 创建模板库
func NewTemplateStore(opts ...StoreOption) *TemplateStore {
	s := &TemplateStore{
		templates: make(map[string]*Template),
	}
	WithTemplatePaths(DefaultTemplatePaths)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 从资源目录加载全部模板
// 单个文件失败只记录日志并跳过，返回成功数量和失败条目的汇总错误；
// 成功的条目无论如何都会生效
func (s *TemplateStore) Load(dir string) (int, error) {
	startTime := time.Now()
	logger.Info("加载模板: %s", dir)

	loaded := make(map[string]*Template, len(s.paths))
	var errs []error

	for _, key := range sortedKeys(s.paths) {
		path := filepath.Join(dir, s.paths[key])
		mat, err := ReadImageGray(path)
		if err != nil {
			mat.Close()
			logger.Error("加载模板 %s 失败: %v", path, err)
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		logger.Debug("- %s (%dx%d)", path, mat.Cols(), mat.Rows())
		loaded[key] = &Template{Key: key, Path: path, Mat: mat}
	}

	s.mu.Lock()
	old := s.templates
	s.templates = loaded
	s.dir = dir
	s.mu.Unlock()

	for _, t := range old {
		t.Mat.Close()
	}

	elapsed := float64(time.Since(startTime).Microseconds()) / 1000
	logger.LogEvent("LOAD", len(errs) == 0, elapsed,
		fmt.Sprintf("%d/%d 个模板", len(loaded), len(s.paths)))

	return len(loaded), errors.Join(errs...)
}

// Reload 清空并从上次的目录重新加载
func (s *TemplateStore) Reload() (int, error) {
	s.mu.RLock()
	dir := s.dir
	s.mu.RUnlock()

	if dir == "" {
		return 0, fmt.Errorf("模板库尚未加载过")
	}
	return s.Load(dir)
}

// Add 直接放入一个灰度模板，模板库接管 mat 的所有权
func (s *TemplateStore) Add(key string, mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("模板 %s: %w", key, ErrEmptyImage)
	}
	gray := mat
	if mat.Channels() != 1 {
		gray = ToGray(mat)
		mat.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.templates[key]; ok {
		old.Mat.Close()
	}
	s.templates[key] = &Template{Key: key, Mat: gray}
	return nil
}

// Get 获取模板
// 返回的模板在下一次 Load/Reload 之前有效，需要跨越重新加载时使用 Use
func (s *TemplateStore) Get(key string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	return t, nil
}

// Use 在读锁保护下使用模板，期间重新加载会等待 fn 返回
func (s *TemplateStore) Use(key string, fn func(*Template) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	return fn(t)
}

// Keys 已加载的模板键（排序后）
func (s *TemplateStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.templates))
	for k := range s.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len 已加载的模板数量
func (s *TemplateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

// Close 释放资源
func (s *TemplateStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.templates {
		t.Mat.Close()
	}
	s.templates = make(map[string]*Template)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
