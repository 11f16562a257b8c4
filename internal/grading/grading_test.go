package grading

import "testing"

func TestTierForCoversWholeScale(t *testing.T) {
	want := map[int]Tier{
		0: TierLow, 1: TierLow, 2: TierLow, 3: TierLow,
		4: TierWarning, 5: TierWarning,
		6: TierGood, 7: TierGood,
		8: TierHigh, 9: TierHigh, 10: TierHigh,
	}
	for mark := 0; mark <= 10; mark++ {
		if got := TierFor(mark); got != want[mark] {
			t.Fatalf("TierFor(%d) = %q, want %q", mark, got, want[mark])
		}
		if IsPassed(mark) != (mark >= 6) {
			t.Fatalf("IsPassed(%d) disagrees with mark>=6", mark)
		}
	}
}

func TestMarkRounding(t *testing.T) {
	cases := []struct {
		score, total float64
		want         int
	}{
		{7, 10, 7},
		{2, 3, 7},  // 6.67 rounds up
		{1, 3, 3},  // 3.33 rounds down
		{10, 10, 10},
		{0, 10, 0},
		{5, 0, 0}, // degenerate total
	}
	for _, c := range cases {
		if got := Mark(c.score, c.total); got != c.want {
			t.Fatalf("Mark(%v,%v) = %d, want %d", c.score, c.total, got, c.want)
		}
	}
}
