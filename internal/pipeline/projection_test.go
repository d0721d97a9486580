package pipeline

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
)

var today = time.Date(2026, 10, 17, 14, 30, 0, 0, time.UTC)

func wishes(targets ...float64) []model.Wish {
	out := make([]model.Wish, len(targets))
	for i, t := range targets {
		out[i] = model.Wish{ID: string(rune('a' + i)), Name: string(rune('A' + i)), Target: t}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProject_HeadphonesThenBike(t *testing.T) {
	ws := []model.Wish{
		{ID: "1", Name: "Headphones", Target: 200},
		{ID: "2", Name: "Bike", Target: 1000},
	}

	plan, err := Project(ws, 50, 10, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(plan.Projections) != 2 {
		t.Fatalf("projections = %d, want 2", len(plan.Projections))
	}

	head := plan.Projections[0]
	if !approx(head.Gap, 150) || head.Days != 15 || !approx(head.Progress, 0.25) {
		t.Fatalf("headphones = gap %.2f days %d progress %.2f, want 150/15/0.25", head.Gap, head.Days, head.Progress)
	}
	if head.CumulativeDays != 15 {
		t.Fatalf("headphones cumulative = %d, want 15", head.CumulativeDays)
	}
	if got := head.CompletionDate.Format("2006-01-02"); got != "2026-11-01" {
		t.Fatalf("headphones date = %s, want 2026-11-01", got)
	}

	bike := plan.Projections[1]
	if !approx(bike.Gap, 1000) || bike.Days != 100 || bike.Progress != 0 {
		t.Fatalf("bike = gap %.2f days %d progress %.2f, want 1000/100/0", bike.Gap, bike.Days, bike.Progress)
	}
	if bike.CumulativeDays != 115 {
		t.Fatalf("bike cumulative = %d, want 115", bike.CumulativeDays)
	}
	if got := bike.CompletionDate.Format("2006-01-02"); got != "2027-02-09" {
		t.Fatalf("bike date = %s, want 2027-02-09", got)
	}

	if plan.TotalDays != 115 {
		t.Fatalf("TotalDays = %d, want 115", plan.TotalDays)
	}
	if !approx(plan.TotalGap, 1150) {
		t.Fatalf("TotalGap = %.2f, want 1150", plan.TotalGap)
	}
	if plan.Stalled {
		t.Fatal("plan unexpectedly stalled")
	}
}

func TestProject_Deterministic(t *testing.T) {
	ws := wishes(120, 33.5, 980, 7)
	a, err := Project(ws, 60, 3.25, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	b, err := Project(ws, 60, 3.25, today.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different plans:\n%+v\n%+v", a, b)
	}
}

func TestProject_SingleWishPartialBalance(t *testing.T) {
	plan, err := Project(wishes(300), 120, 7, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	p := plan.Projections[0]
	if p.Days != 25 {
		t.Fatalf("Days = %d, want floor(180/7) = 25", p.Days)
	}
	if !approx(p.Progress, 0.4) {
		t.Fatalf("Progress = %.4f, want 0.4", p.Progress)
	}
}

func TestProject_SingleWishAlreadyFunded(t *testing.T) {
	plan, err := Project(wishes(80), 500, 10, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	p := plan.Projections[0]
	if p.Days != 0 || p.Progress != 1.0 || !p.Funded() {
		t.Fatalf("funded wish = days %d progress %.2f funded %v, want 0/1.0/true", p.Days, p.Progress, p.Funded())
	}
	if !p.CompletionDate.Equal(Day(today)) {
		t.Fatalf("CompletionDate = %v, want today", p.CompletionDate)
	}
}

func TestProject_SequentialConsumption(t *testing.T) {
	plan, err := Project(wishes(100, 250), 100, 20, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	first, second := plan.Projections[0], plan.Projections[1]
	if first.Progress != 1.0 || first.Days != 0 {
		t.Fatalf("first = progress %.2f days %d, want 1.0/0", first.Progress, first.Days)
	}
	if second.Progress != 0 || second.Days != 12 {
		t.Fatalf("second = progress %.2f days %d, want 0/12", second.Progress, second.Days)
	}
}

func TestProject_SurplusCarriesToNextWish(t *testing.T) {
	plan, err := Project(wishes(100, 400), 300, 10, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	second := plan.Projections[1]
	if !approx(second.AlreadyHave, 200) || !approx(second.Progress, 0.5) || second.Days != 20 {
		t.Fatalf("second = have %.2f progress %.2f days %d, want 200/0.5/20",
			second.AlreadyHave, second.Progress, second.Days)
	}
}

func TestProject_TotalGapIgnoresOrder(t *testing.T) {
	fwd, err := Project(wishes(40, 900, 15), 100, 5, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	rev, err := Project(wishes(15, 900, 40), 100, 5, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !approx(fwd.TotalGap, 855) || !approx(rev.TotalGap, 855) {
		t.Fatalf("TotalGap = %.2f / %.2f, want 855", fwd.TotalGap, rev.TotalGap)
	}

	over, err := Project(wishes(10, 20), 1000, 5, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if over.TotalGap != 0 {
		t.Fatalf("TotalGap = %.2f, want 0 when balance exceeds targets", over.TotalGap)
	}
}

func TestProject_ZeroRateStalls(t *testing.T) {
	plan, err := Project(wishes(50, 70), 60, 0, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if plan.Projections[0].Stalled {
		t.Fatal("funded wish marked stalled")
	}
	second := plan.Projections[1]
	if second.Days != 0 || !second.Stalled {
		t.Fatalf("second = days %d stalled %v, want 0/true", second.Days, second.Stalled)
	}
	if !plan.Stalled || plan.TotalDays != 0 {
		t.Fatalf("plan stalled=%v total=%d, want true/0", plan.Stalled, plan.TotalDays)
	}
}

func TestProject_HugeGapStallsInsteadOfOverflowing(t *testing.T) {
	plan, err := Project([]model.Wish{{ID: "y", Name: "Yacht", Target: 1e20}}, 0, 0.01, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	p := plan.Projections[0]
	if p.Days != 0 || p.CumulativeDays != 0 || !p.Stalled {
		t.Fatalf("yacht = days %d cumulative %d stalled %v, want 0/0/true", p.Days, p.CumulativeDays, p.Stalled)
	}
	if !plan.Stalled || plan.TotalDays != 0 {
		t.Fatalf("plan stalled=%v total=%d, want true/0", plan.Stalled, plan.TotalDays)
	}
	if !p.CompletionDate.Equal(Day(today)) {
		t.Fatalf("CompletionDate = %v, want today", p.CompletionDate)
	}
}

func TestProject_HorizonCapsCumulativeDays(t *testing.T) {
	plan, err := Project(wishes(model.MaxPlanDays, 10, 5), 0, 1, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	first, second := plan.Projections[0], plan.Projections[1]
	if first.Days != model.MaxPlanDays || first.Stalled {
		t.Fatalf("first = days %d stalled %v, want %d/false", first.Days, first.Stalled, model.MaxPlanDays)
	}
	if second.Days != 0 || !second.Stalled {
		t.Fatalf("second = days %d stalled %v, want 0/true", second.Days, second.Stalled)
	}
	for i, p := range plan.Projections {
		if p.Days < 0 || p.CumulativeDays < 0 || p.CumulativeDays > model.MaxPlanDays {
			t.Fatalf("projection %d days=%d cumulative=%d out of range", i, p.Days, p.CumulativeDays)
		}
	}
	if plan.TotalDays != model.MaxPlanDays {
		t.Fatalf("TotalDays = %d, want %d", plan.TotalDays, model.MaxPlanDays)
	}
}

func TestProject_EmptyList(t *testing.T) {
	plan, err := Project(nil, 100, 10, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(plan.Projections) != 0 || plan.TotalDays != 0 || plan.TotalGap != 0 {
		t.Fatalf("empty plan = %+v", plan)
	}
	if !plan.FinishDate().Equal(Day(today)) {
		t.Fatalf("FinishDate = %v, want today", plan.FinishDate())
	}
}

func TestProject_RejectsInvalidInput(t *testing.T) {
	if _, err := Project(wishes(10, 0), 0, 1, today); !errors.Is(err, model.ErrInvalidWish) {
		t.Fatalf("zero target err = %v, want ErrInvalidWish", err)
	}
	if _, err := Project(wishes(10, math.NaN()), 0, 1, today); !errors.Is(err, model.ErrInvalidWish) {
		t.Fatalf("NaN target err = %v, want ErrInvalidWish", err)
	}
	if _, err := Project(wishes(10), 0, -1, today); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("negative rate err = %v, want ErrInvalidConfig", err)
	}
	if _, err := Project(wishes(10), math.Inf(1), 1, today); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("infinite balance err = %v, want ErrInvalidConfig", err)
	}
}

func TestSummarize(t *testing.T) {
	plan, err := Project(wishes(100, 250, 50), 150, 10, today)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	s := Summarize(plan)
	if s.Wishes != 3 || s.Funded != 1 {
		t.Fatalf("wishes/funded = %d/%d, want 3/1", s.Wishes, s.Funded)
	}
	if !approx(s.Saved, 150) {
		t.Fatalf("Saved = %.2f, want 150", s.Saved)
	}
	if !approx(s.Overall, 150.0/400.0) {
		t.Fatalf("Overall = %.4f, want %.4f", s.Overall, 150.0/400.0)
	}

	series := DaysSeries(plan)
	if len(series.Days) != 3 || series.Days[1] != 20 || series.Cumul[2] != 25 {
		t.Fatalf("series = %+v", series)
	}
}
