// Package vision 提供格子识别的便捷接口
//
// 在 cv 包的基础上串起完整流程：预处理 -> 多尺度匹配 -> 去重 -> 坐标还原。
//
// 基本用法:
//
//	store := vision.NewTemplateStore()
//	if _, err := store.Load("resources"); err != nil {
//	    log.Println(err)
//	}
//	defer store.Close()
//
//	cells, err := vision.LocateCells(store, "screen.png", "udark")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range cells {
//	    fmt.Printf("格子: %s (%d, %d)\n", c.Key, c.Center.X, c.Center.Y)
//	}
package vision

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"

	"github.com/zoeyai/sweeper/internal/logger"
	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// NewTemplateStore 创建使用默认模板表的模板库
func NewTemplateStore() *TemplateStore {
	return cv.NewTemplateStore()
}

// NewMatcher 按全局配置创建多尺度匹配器
func NewMatcher(store *TemplateStore, opts ...Option) *cv.MultiScaleMatcher {
	cfg := newFindConfig(opts)
	return cv.NewMultiScaleMatcher(store, cfg.matcherOptions()...)
}

// Filters 按全局配置生成截图预处理滤镜，未配置时返回 nil
func Filters(opts ...Option) []gift.Filter {
	return newFindConfig(opts).filters()
}

// FindCells 在灰度截图中查找一种格子
// 返回去重并还原到原图坐标的格子，以及最佳尺度的原始匹配结果
func FindCells(matcher *cv.MultiScaleMatcher, gray gocv.Mat, key string) ([]Cell, *ScaleMatch, error) {
	match, err := matcher.Match(key, gray)
	if err != nil {
		return nil, nil, err
	}

	startTime := time.Now()
	points := cv.FilterPoints(match.Points, match.TemplateWidth, match.TemplateHeight)
	cells := cv.BuildCells(match, points)

	elapsed := float64(time.Since(startTime).Microseconds()) / 1000
	logger.LogEvent("FLTR", true, elapsed,
		fmt.Sprintf("%s: %d -> %d 个格子", key, len(match.Points), len(cells)))

	return cells, match, nil
}

// FindAllCells 依次查找多种格子并按得分合并
// 单个模板缺失或尺度耗尽只记录警告；全部失败时返回汇总错误
func FindAllCells(matcher *cv.MultiScaleMatcher, gray gocv.Mat, keys []string) ([]Cell, error) {
	var (
		all  []Cell
		errs []error
	)
	for _, key := range keys {
		cells, _, err := FindCells(matcher, gray, key)
		if err != nil {
			if errors.Is(err, cv.ErrEmptyImage) {
				return nil, err
			}
			logger.Warn("跳过模板 %s: %v", key, err)
			errs = append(errs, err)
			continue
		}
		all = append(all, cells...)
	}

	if len(keys) > 0 && len(errs) == len(keys) {
		return nil, errors.Join(errs...)
	}
	return cv.MergeByScore(all), nil
}

// Prepare 加载并预处理截图
// input 可以是文件路径、image.Image 或 gocv.Mat
func Prepare(input ImageInput, opts ...Option) (*cv.PreparedImage, error) {
	filters := Filters(opts...)

	switch v := input.(type) {
	case string:
		mat, err := cv.ReadImage(v)
		if err != nil {
			mat.Close()
			return nil, err
		}
		defer mat.Close()
		if len(filters) == 0 {
			return cv.PrepareMat(mat)
		}
		img, err := cv.MatToImage(mat)
		if err != nil {
			return nil, err
		}
		return cv.PrepareImage(img, filters...)
	case image.Image:
		return cv.PrepareImage(v, filters...)
	case gocv.Mat:
		if len(filters) == 0 || v.Empty() {
			return cv.PrepareMat(v)
		}
		img, err := cv.MatToImage(v)
		if err != nil {
			return nil, err
		}
		return cv.PrepareImage(img, filters...)
	case *gocv.Mat:
		if v == nil {
			return nil, cv.ErrEmptyImage
		}
		return Prepare(*v, opts...)
	default:
		return nil, fmt.Errorf("不支持的图像输入类型: %T", input)
	}
}

// LocateCells 一次性识别截图中的一种格子
func LocateCells(store *TemplateStore, screen ImageInput, key string, opts ...Option) ([]Cell, error) {
	prepared, err := Prepare(screen, opts...)
	if err != nil {
		return nil, err
	}
	defer prepared.Close()

	cells, _, err := FindCells(NewMatcher(store, opts...), prepared.Gray, key)
	return cells, err
}

// ============ 工具函数 ============

// ReadImage 读取图像文件
func ReadImage(filename string) (gocv.Mat, error) {
	return cv.ReadImage(filename)
}

// ImageToMat 将 image.Image 转换为 gocv.Mat
func ImageToMat(img image.Image) (gocv.Mat, error) {
	return cv.ImageToMat(img)
}
