package cv

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound 模板键不存在
	ErrTemplateNotFound = errors.New("模板不存在")
	// ErrEmptyImage 输入图像为空
	ErrEmptyImage = errors.New("图像为空")
	// ErrScaleExhausted 所有尺度都小于模板
	ErrScaleExhausted = errors.New("所有尺度均小于模板")
)

// ScaleExhaustedError 搜索图在任何尺度下都容不下模板
type ScaleExhaustedError struct {
	Key          string
	ImageSize    [2]int
	TemplateSize [2]int
}

func (e *ScaleExhaustedError) Error() string {
	return fmt.Sprintf("模板 %s (%dx%d) 大于搜索图像 (%dx%d)，没有可用尺度",
		e.Key, e.TemplateSize[0], e.TemplateSize[1], e.ImageSize[0], e.ImageSize[1])
}

// Is 支持 errors.Is(err, ErrScaleExhausted)
func (e *ScaleExhaustedError) Is(target error) bool {
	return target == ErrScaleExhausted
}

// ImageSizeError 图像尺寸错误
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸大于源图像: %dx%d > %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}
