package cv

import (
	"gocv.io/x/gocv"
)

// TemplateMatching 单尺度模板匹配器
type TemplateMatching struct {
	imSearch  gocv.Mat
	imSource  gocv.Mat
	threshold float64
}

// NewTemplateMatching 创建模板匹配器，search 与 source 均为灰度图
func NewTemplateMatching(search, source gocv.Mat, threshold float64) *TemplateMatching {
	return &TemplateMatching{
		imSearch:  search,
		imSource:  source,
		threshold: threshold,
	}
}

// FindAllPoints 查找所有相关系数不低于阈值的位置
// 结果按行优先顺序排列（先 y 后 x）
func (t *TemplateMatching) FindAllPoints() ([]MatchPoint, error) {
	if err := checkSourceLargerThanSearch(t.imSource, t.imSearch); err != nil {
		return nil, err
	}

	result := t.getTemplateResultMatrix()
	defer result.Close()

	scores, err := result.DataPtrFloat32()
	if err != nil {
		return nil, err
	}

	cols := result.Cols()
	var points []MatchPoint
	for i, score := range scores {
		if float64(score) >= t.threshold {
			points = append(points, MatchPoint{
				X:     i % cols,
				Y:     i / cols,
				Score: float64(score),
			})
		}
	}
	return points, nil
}

// FindBestPoint 查找相关系数最高的位置，低于阈值返回 nil
func (t *TemplateMatching) FindBestPoint() (*MatchPoint, error) {
	if err := checkSourceLargerThanSearch(t.imSource, t.imSearch); err != nil {
		return nil, err
	}

	result := t.getTemplateResultMatrix()
	defer result.Close()

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	if float64(maxVal) < t.threshold {
		return nil, nil
	}
	return &MatchPoint{X: maxLoc.X, Y: maxLoc.Y, Score: float64(maxVal)}, nil
}

// getTemplateResultMatrix 计算 TM_CCOEFF_NORMED 结果矩阵 (CV_32FC1)
func (t *TemplateMatching) getTemplateResultMatrix() gocv.Mat {
	mask := gocv.NewMat()
	defer mask.Close()

	result := gocv.NewMat()
	gocv.MatchTemplate(t.imSource, t.imSearch, &result, gocv.TmCcoeffNormed, mask)
	return result
}

// checkSourceLargerThanSearch 检查源图像是否大于搜索图像
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}
