package cv

import (
	"errors"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func TestLinearScales(t *testing.T) {
	scales := LinearScales(0.1, 1.0, 30)
	if len(scales) != 30 {
		t.Fatalf("尺度数量错误: got %d, want 30", len(scales))
	}
	if scales[0] != 1.0 {
		t.Errorf("第一个尺度应为 1.0, 实际为 %f", scales[0])
	}
	if math.Abs(scales[29]-0.1) > 1e-12 {
		t.Errorf("最后一个尺度应为 0.1, 实际为 %f", scales[29])
	}
	for i := 1; i < len(scales); i++ {
		if scales[i] >= scales[i-1] {
			t.Fatalf("尺度应严格递减: scales[%d]=%f >= scales[%d]=%f", i, scales[i], i-1, scales[i-1])
		}
	}
	step := (1.0 - 0.1) / 29
	if math.Abs((scales[0]-scales[1])-step) > 1e-9 {
		t.Errorf("步长错误: got %f, want %f", scales[0]-scales[1], step)
	}
}

func TestWithScalesSortsDescending(t *testing.T) {
	m := NewMultiScaleMatcher(NewTemplateStore(), WithScales(0.5, 1.0, 0.75, -1))
	got := m.Scales()
	want := []float64{1.0, 0.75, 0.5}
	if len(got) != len(want) {
		t.Fatalf("尺度数量错误: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scales[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestMatchUnknownKey(t *testing.T) {
	store := NewTemplateStore()
	defer store.Close()

	img := makeCanvas(100, 100, 128)
	defer img.Close()

	_, err := NewMultiScaleMatcher(store).Match("udark", img)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("未知模板应返回 ErrTemplateNotFound, 实际为 %v", err)
	}
}

func TestMatchBlankImageHasNoPoints(t *testing.T) {
	tmpl := makePattern(10, 10, 7)
	defer tmpl.Close()
	store := newStoreWith("udark", tmpl)
	defer store.Close()

	img := makeCanvas(100, 100, 128)
	defer img.Close()

	match, err := NewMultiScaleMatcher(store).Match("udark", img)
	if err != nil {
		t.Fatalf("匹配失败: %v", err)
	}
	if len(match.Points) != 0 {
		t.Errorf("空白图像不应有匹配点, 实际 %d 个", len(match.Points))
	}
	if match.ScalesTried == 0 {
		t.Error("至少应尝试一个尺度")
	}
	if match.Ratio != 1.0 {
		t.Errorf("无匹配时保留第一个尺度的比例, got %f", match.Ratio)
	}
}

func TestMatchScaleExhausted(t *testing.T) {
	tmpl := makePattern(200, 200, 3)
	defer tmpl.Close()
	store := newStoreWith("udark", tmpl)
	defer store.Close()

	img := makeCanvas(100, 100, 128)
	defer img.Close()

	match, err := NewMultiScaleMatcher(store).Match("udark", img)
	if match != nil {
		t.Errorf("尺度耗尽时不应返回结果: %+v", match)
	}
	if !errors.Is(err, ErrScaleExhausted) {
		t.Fatalf("应返回 ErrScaleExhausted, 实际为 %v", err)
	}
	var se *ScaleExhaustedError
	if !errors.As(err, &se) {
		t.Fatalf("应为 *ScaleExhaustedError, 实际为 %T", err)
	}
	if se.TemplateSize != [2]int{200, 200} || se.ImageSize != [2]int{100, 100} {
		t.Errorf("错误信息中的尺寸不正确: %+v", se)
	}
}

func TestMatchEmptyImage(t *testing.T) {
	tmpl := makePattern(10, 10, 7)
	defer tmpl.Close()
	store := newStoreWith("udark", tmpl)
	defer store.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := NewMultiScaleMatcher(store).Match("udark", empty); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("空图像应返回 ErrEmptyImage, 实际为 %v", err)
	}
}

// TestMatchEndToEnd 100x100 图像中 (20,20) 处有一个 10x10 模板
func TestMatchEndToEnd(t *testing.T) {
	tmpl := makePattern(10, 10, 11)
	defer tmpl.Close()
	store := newStoreWith("udark", tmpl)
	defer store.Close()

	img := makeCanvas(100, 100, 128)
	defer img.Close()
	paste(img, tmpl, 20, 20)

	match, err := NewMultiScaleMatcher(store, WithScales(1.0)).Match("udark", img)
	if err != nil {
		t.Fatalf("匹配失败: %v", err)
	}
	if len(match.Points) < 1 {
		t.Fatal("应至少有一个原始匹配点")
	}
	for _, p := range match.Points {
		if p.X < 10 || p.X > 30 || p.Y < 10 || p.Y > 30 {
			t.Errorf("匹配点 (%d,%d) 不在 (20,20) 附近", p.X, p.Y)
		}
	}

	filtered := FilterPoints(match.Points, match.TemplateWidth, match.TemplateHeight)
	if len(filtered) != 1 {
		t.Fatalf("过滤后应只剩一个点, 实际 %d 个", len(filtered))
	}

	rects, centers := RescalePoints(filtered, match.Ratio, match.TemplateWidth, match.TemplateHeight)
	wantRect := Rectangle{TopLeft: Point{X: 20, Y: 20}, BottomRight: Point{X: 30, Y: 30}}
	if rects[0] != wantRect {
		t.Errorf("矩形错误: got %+v, want %+v", rects[0], wantRect)
	}
	if centers[0] != (Point{X: 25, Y: 25}) {
		t.Errorf("中心点错误: got %+v, want (25,25)", centers[0])
	}
}

func TestMatchMultiplePlacements(t *testing.T) {
	tmpl := makePattern(10, 10, 21)
	defer tmpl.Close()
	store := newStoreWith("c1", tmpl)
	defer store.Close()

	img := makeCanvas(100, 100, 128)
	defer img.Close()

	placements := []Point{{5, 5}, {30, 5}, {55, 40}, {80, 80}, {10, 70}}
	for _, p := range placements {
		paste(img, tmpl, p.X, p.Y)
	}

	match, err := NewMultiScaleMatcher(store, WithScales(1.0)).Match("c1", img)
	if err != nil {
		t.Fatalf("匹配失败: %v", err)
	}

	filtered := FilterPoints(match.Points, 10, 10)
	if len(filtered) != len(placements) {
		t.Fatalf("过滤后点数错误: got %d, want %d", len(filtered), len(placements))
	}

	for _, want := range placements {
		found := false
		for _, p := range filtered {
			cx, cy := float64(p.X+5), float64(p.Y+5)
			if math.Abs(cx-float64(want.X+5)) <= 5 && math.Abs(cy-float64(want.Y+5)) <= 5 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("放置点 %+v 没有对应的检测结果", want)
		}
	}
}

// TestMatchPrefersScaleWithMostPoints 1.0 尺度下只有一个原尺寸副本，
// 0.5 尺度下三个放大两倍的副本都能精确匹配
func TestMatchPrefersScaleWithMostPoints(t *testing.T) {
	tmpl := makePattern(10, 10, 5)
	defer tmpl.Close()
	big := upscale2x(tmpl)
	defer big.Close()

	store := newStoreWith("ulight", tmpl)
	defer store.Close()

	img := makeCanvas(200, 100, 128)
	defer img.Close()
	paste(img, tmpl, 10, 10)
	paste(img, big, 60, 40)
	paste(img, big, 110, 40)
	paste(img, big, 160, 40)

	match, err := NewMultiScaleMatcher(store, WithScales(1.0, 0.5)).Match("ulight", img)
	if err != nil {
		t.Fatalf("匹配失败: %v", err)
	}
	if match.Ratio != 2.0 {
		t.Fatalf("应选中 0.5 尺度 (ratio=2), 实际 ratio=%f, 点数=%d", match.Ratio, len(match.Points))
	}

	cells := BuildCells(match, FilterPoints(match.Points, match.TemplateWidth, match.TemplateHeight))
	if len(cells) != 3 {
		t.Fatalf("格子数量错误: got %d, want 3", len(cells))
	}
	wantX := []int{60, 110, 160}
	for i, c := range cells {
		if c.Rect.TopLeft != (Point{X: wantX[i], Y: 40}) {
			t.Errorf("cells[%d] 左上角错误: got %+v", i, c.Rect.TopLeft)
		}
		if c.Rect.Width() != 20 || c.Rect.Height() != 20 {
			t.Errorf("cells[%d] 尺寸应为模板尺寸乘以比例: got %dx%d", i, c.Rect.Width(), c.Rect.Height())
		}
		if c.Key != "ulight" {
			t.Errorf("cells[%d] 模板键错误: %s", i, c.Key)
		}
	}
}

func TestMatchIdempotent(t *testing.T) {
	tmpl := makePattern(10, 10, 9)
	defer tmpl.Close()
	store := newStoreWith("udark", tmpl)
	defer store.Close()

	img := makeCanvas(120, 90, 200)
	defer img.Close()
	paste(img, tmpl, 15, 15)
	paste(img, tmpl, 60, 50)

	matcher := NewMultiScaleMatcher(store)
	run := func() []Cell {
		match, err := matcher.Match("udark", img)
		if err != nil {
			t.Fatalf("匹配失败: %v", err)
		}
		return BuildCells(match, FilterPoints(match.Points, match.TemplateWidth, match.TemplateHeight))
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("两次结果数量不同: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("第 %d 个结果不同: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTemplateMatchingSizeError(t *testing.T) {
	tmpl := makePattern(20, 20, 1)
	defer tmpl.Close()
	img := makeCanvas(10, 10, 0)
	defer img.Close()

	_, err := NewTemplateMatching(tmpl, img, 0.8).FindAllPoints()
	var sizeErr *ImageSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("应返回 *ImageSizeError, 实际为 %v", err)
	}
}

func TestTemplateMatchingFindBestPoint(t *testing.T) {
	tmpl := makePattern(8, 8, 13)
	defer tmpl.Close()
	img := makeCanvas(40, 30, 50)
	defer img.Close()
	paste(img, tmpl, 17, 9)

	p, err := NewTemplateMatching(tmpl, img, 0.8).FindBestPoint()
	if err != nil {
		t.Fatalf("匹配失败: %v", err)
	}
	if p == nil {
		t.Fatal("应找到匹配")
	}
	if p.X != 17 || p.Y != 9 {
		t.Errorf("位置错误: got (%d,%d), want (17,9)", p.X, p.Y)
	}
	if p.Score < 0.99 {
		t.Errorf("精确副本得分应接近 1, 实际 %.4f", p.Score)
	}
}

func TestMeanScore(t *testing.T) {
	if MeanScore(nil) != 0 {
		t.Error("空列表平均分应为 0")
	}
	got := MeanScore([]MatchPoint{{Score: 0.8}, {Score: 1.0}})
	if math.Abs(got-0.9) > 1e-12 {
		t.Errorf("平均分错误: got %f, want 0.9", got)
	}
}
