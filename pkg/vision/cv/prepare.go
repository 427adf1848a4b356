package cv

import (
	"image"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"
)

// PreparedImage 预处理后的截图
type PreparedImage struct {
	// Color BGR 彩色图，用于绘制叠加层
	Color gocv.Mat
	// Gray 灰度图，用于模板匹配
	Gray gocv.Mat
}

// Width 图像宽度
func (p *PreparedImage) Width() int {
	return p.Gray.Cols()
}

// Height 图像高度
func (p *PreparedImage) Height() int {
	return p.Gray.Rows()
}

// Close 释放资源
func (p *PreparedImage) Close() {
	p.Color.Close()
	p.Gray.Close()
}

// PrepareImage 将截图转换为匹配所需的形式
// filters 为可选的预处理滤镜（如对比度调整），输入图像不会被修改
func PrepareImage(img image.Image, filters ...gift.Filter) (*PreparedImage, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	rgba := normalizeRGBA(img, filters...)
	color, err := ImageToMat(rgba)
	if err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	gocv.CvtColor(color, &gray, gocv.ColorBGRToGray)

	return &PreparedImage{Color: color, Gray: gray}, nil
}

// PrepareMat 从已有 Mat 预处理（单通道输入视为灰度图）
func PrepareMat(src gocv.Mat) (*PreparedImage, error) {
	if src.Empty() {
		return nil, ErrEmptyImage
	}

	if src.Channels() == 1 {
		color := gocv.NewMat()
		gocv.CvtColor(src, &color, gocv.ColorGrayToBGR)
		return &PreparedImage{Color: color, Gray: src.Clone()}, nil
	}

	color := src.Clone()
	return &PreparedImage{Color: color, Gray: ToGray(color)}, nil
}

// normalizeRGBA 复制为原点在 (0,0) 的 RGBA 图像并应用滤镜
func normalizeRGBA(img image.Image, filters ...gift.Filter) *image.RGBA {
	g := gift.New(filters...)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
