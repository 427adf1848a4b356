package cv

import (
	"math/rand"
	"testing"
)

func TestFilterPointsRadiusBoundary(t *testing.T) {
	tests := []struct {
		name   string
		points []MatchPoint
		w, h   int
		want   int
	}{
		{
			name:   "距离为 min-1 时合并",
			points: []MatchPoint{{X: 0, Y: 0}, {X: 9, Y: 0}},
			w:      10, h: 12,
			want: 1,
		},
		{
			name:   "距离恰好为 min 时保留",
			points: []MatchPoint{{X: 0, Y: 0}, {X: 10, Y: 0}},
			w:      10, h: 12,
			want: 2,
		},
		{
			name:   "半径取宽高中较小者",
			points: []MatchPoint{{X: 0, Y: 0}, {X: 0, Y: 8}},
			w:      12, h: 8,
			want: 2,
		},
		{
			name:   "斜向距离",
			points: []MatchPoint{{X: 0, Y: 0}, {X: 6, Y: 8}},
			w:      11, h: 11,
			want: 1,
		},
		{
			name:   "空输入",
			points: nil,
			w:      10, h: 10,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPoints(tt.points, tt.w, tt.h)
			if len(got) != tt.want {
				t.Errorf("FilterPoints() 返回 %d 个点, want %d", len(got), tt.want)
			}
			indexed := FilterPointsIndexed(tt.points, tt.w, tt.h)
			if len(indexed) != tt.want {
				t.Errorf("FilterPointsIndexed() 返回 %d 个点, want %d", len(indexed), tt.want)
			}
		})
	}
}

func TestFilterPointsFirstSeenWins(t *testing.T) {
	points := []MatchPoint{
		{X: 21, Y: 20, Score: 0.85},
		{X: 20, Y: 20, Score: 0.99},
		{X: 50, Y: 20, Score: 0.9},
		{X: 22, Y: 21, Score: 0.95},
	}
	got := FilterPoints(points, 10, 10)
	if len(got) != 2 {
		t.Fatalf("应保留 2 个点, 实际 %d", len(got))
	}
	if got[0] != points[0] || got[1] != points[2] {
		t.Errorf("应按输入顺序先到先得: got %+v", got)
	}
}

func TestFilterPointsChainNotTransitive(t *testing.T) {
	// b 被 a 拒绝后不参与比较，所以 c 可以保留
	points := []MatchPoint{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 12, Y: 0}}
	got := FilterPoints(points, 10, 10)
	if len(got) != 2 || got[1].X != 12 {
		t.Errorf("结果错误: %+v", got)
	}
}

func TestFilterPointsIndexedMatchesQuadratic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(300)
		points := make([]MatchPoint, n)
		for i := range points {
			points[i] = MatchPoint{X: rng.Intn(200) - 20, Y: rng.Intn(200) - 20, Score: rng.Float64()}
		}
		w, h := 1+rng.Intn(20), 1+rng.Intn(20)

		want := FilterPoints(points, w, h)
		got := FilterPointsIndexed(points, w, h)
		if len(got) != len(want) {
			t.Fatalf("第 %d 轮结果数量不同: got %d, want %d", round, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("第 %d 轮第 %d 个点不同: got %+v, want %+v", round, i, got[i], want[i])
			}
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 3, 2}, {-7, 3, -3}, {-6, 3, -2}, {0, 5, 0}, {-1, 10, -1},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
