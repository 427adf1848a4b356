package field

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gocv.io/x/gocv"

	"github.com/zoeyai/sweeper/pkg/vision/cv"
)

// 叠加层颜色 (BGR 顺序由 gocv 处理，这里是 RGBA)
var (
	rectColor   = color.RGBA{R: 255, A: 255}
	centerColor = color.RGBA{B: 255, A: 255}
	labelColor  = color.RGBA{R: 255, G: 255, A: 255}
)

// centerRadius 中心标记半径
const centerRadius = 2

// DrawOverlay 在彩色截图副本上画出格子
// 红色 1 像素矩形框，中心处画半径 2 的蓝色实心圆，src 不会被修改
func DrawOverlay(src gocv.Mat, cells []cv.Cell) gocv.Mat {
	var dst gocv.Mat
	if src.Channels() == 1 {
		dst = gocv.NewMat()
		gocv.CvtColor(src, &dst, gocv.ColorGrayToBGR)
	} else {
		dst = src.Clone()
	}

	for _, c := range cells {
		gocv.Rectangle(&dst, c.Rect.ToImageRect(), rectColor, 1)
		center := image.Pt(c.Center.X-centerRadius/2, c.Center.Y-centerRadius/2)
		gocv.Circle(&dst, center, centerRadius, centerColor, -1)
	}
	return dst
}

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

// loadLabelFont 加载内置字体
func loadLabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// AnnotateLabels 在叠加层上标注每个格子的模板键
// 返回新的 RGBA 图像，可直接编码为 PNG
func AnnotateLabels(img image.Image, cells []cv.Cell, fontSize float64) (*image.RGBA, error) {
	f, err := loadLabelFont()
	if err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetClip(bounds)
	c.SetDst(rgba)
	c.SetSrc(image.NewUniform(labelColor))
	c.SetHinting(font.HintingFull)

	for _, cell := range cells {
		x := bounds.Min.X + cell.Rect.TopLeft.X + 1
		y := bounds.Min.Y + cell.Rect.TopLeft.Y + 1
		pt := freetype.Pt(x, y+int(c.PointToFixed(fontSize)>>6))
		if _, err := c.DrawString(cell.Key, pt); err != nil {
			return nil, fmt.Errorf("绘制标签失败: %w", err)
		}
	}
	return rgba, nil
}
