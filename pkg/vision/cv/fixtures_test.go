package cv

import (
	"gocv.io/x/gocv"
)

// makePattern 生成伪随机纹理灰度图，相邻位移后的自相关很低
func makePattern(w, h int, seed uint32) gocv.Mat {
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	state := seed
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			state = state*1664525 + 1013904223
			mat.SetUCharAt(y, x, uint8(state>>24))
		}
	}
	return mat
}

// makeCanvas 生成纯色灰度画布
func makeCanvas(w, h int, value uint8) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(value), 0, 0, 0), h, w, gocv.MatTypeCV8UC1)
}

// paste 把 src 逐像素拷贝到 dst 的 (x, y) 处
func paste(dst, src gocv.Mat, x, y int) {
	for row := 0; row < src.Rows(); row++ {
		for col := 0; col < src.Cols(); col++ {
			dst.SetUCharAt(y+row, x+col, src.GetUCharAt(row, col))
		}
	}
}

// upscale2x 最近邻放大两倍
func upscale2x(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMatWithSize(src.Rows()*2, src.Cols()*2, gocv.MatTypeCV8UC1)
	for y := 0; y < dst.Rows(); y++ {
		for x := 0; x < dst.Cols(); x++ {
			dst.SetUCharAt(y, x, src.GetUCharAt(y/2, x/2))
		}
	}
	return dst
}

// newStoreWith 创建只包含一个模板的模板库
func newStoreWith(key string, tmpl gocv.Mat) *TemplateStore {
	store := NewTemplateStore()
	store.Add(key, tmpl.Clone())
	return store
}
