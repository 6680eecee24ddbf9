package calculator

import (
	"testing"

	"StockReturns/internal/model"
)

func TestDailyReturns(t *testing.T) {
	s := series("2024-01-01", 100, 105, 103, 108, 110)
	points, raw := DailyReturns(s)
	if len(points) != 4 || len(raw) != 4 {
		t.Fatalf("expected 4 returns, got %d points and %d raw", len(points), len(raw))
	}
	want := []model.ReturnPoint{
		{Date: "2024-01-02", Return: 0.05},
		{Date: "2024-01-03", Return: -0.019048},
		{Date: "2024-01-04", Return: 0.048544},
		{Date: "2024-01-05", Return: 0.018519},
	}
	for i, w := range want {
		if points[i] != w {
			t.Errorf("point %d: expected %+v, got %+v", i, w, points[i])
		}
	}
}

func TestDailyReturns_SkipsZeroPrevious(t *testing.T) {
	s := series("2024-01-01", 100, 0, 50, 55)
	points, _ := DailyReturns(s)
	// 100->0 is kept (-1), 0->50 is skipped, 50->55 is kept
	if len(points) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(points))
	}
	if points[0].Return != -1 || points[1].Return != 0.1 {
		t.Errorf("unexpected returns: %+v", points)
	}
	if points[1].Date != "2024-01-04" {
		t.Errorf("expected the later day's date, got %s", points[1].Date)
	}
}

func TestDailyReturns_SingleBar(t *testing.T) {
	points, raw := DailyReturns(series("2024-01-01", 100))
	if points == nil || len(points) != 0 || len(raw) != 0 {
		t.Errorf("expected empty non-nil points, got %#v", points)
	}
}

func TestSummarize(t *testing.T) {
	_, raw := DailyReturns(series("2024-01-01", 100, 105, 103, 108, 110))
	got := Summarize(raw)
	want := model.Summary{Min: -0.019048, Max: 0.05, Mean: 0.024504}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); got != (model.Summary{}) {
		t.Errorf("expected sentinel, got %+v", got)
	}
}
