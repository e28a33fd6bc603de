package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/stride/internal/models"
)

var testStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // a Monday

func defaultHistory() models.AthleteHistory {
	return models.AthleteHistory{YearKm: 2080, Avg4WeekKm: 42, LastWeekKm: 45}
}

// TestBuildContinuousFallback verifies the no-objective path: one continuous
// cycle with no peak or taper, flagged by a warning.
func TestBuildContinuousFallback(t *testing.T) {
	p := Build(testStart, nil, defaultHistory())

	if len(p.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(p.Cycles))
	}
	c := p.Cycles[0]
	if c.Type != models.CycleContinuous {
		t.Errorf("cycle type = %q, want %q", c.Type, models.CycleContinuous)
	}
	if c.Objective != nil {
		t.Errorf("continuous cycle has objective %v, want nil", c.Objective)
	}
	if c.Allocation.Peak != 0 || c.Allocation.Taper != 0 {
		t.Errorf("continuous allocation has peak %d, taper %d, want 0, 0",
			c.Allocation.Peak, c.Allocation.Taper)
	}
	if len(c.Schedule) != continuousWeeks {
		t.Errorf("got %d scheduled weeks, want %d", len(c.Schedule), continuousWeeks)
	}

	found := false
	for _, w := range p.Warnings {
		if strings.Contains(w, "no priority objective") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a no-priority-objective warning", p.Warnings)
	}
}

// TestBuildIgnoresNonPriorityObjectives verifies secondary objectives never
// spawn cycles of their own.
func TestBuildIgnoresNonPriorityObjectives(t *testing.T) {
	objectives := []models.Objective{
		{Name: "tune-up 10k", Distance: models.Distance10K, Date: testStart.AddDate(0, 0, 7*6), Tier: models.TierSecondary},
	}
	p := Build(testStart, objectives, defaultHistory())
	if len(p.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(p.Cycles))
	}
	if p.Cycles[0].Type != models.CycleContinuous {
		t.Errorf("cycle type = %q, want %q", p.Cycles[0].Type, models.CycleContinuous)
	}
}

// TestBuildSingleObjective verifies a single priority race 16 weeks out gets
// one race cycle with a full schedule and no spacing warnings.
func TestBuildSingleObjective(t *testing.T) {
	race := models.Objective{
		Name:     "spring 10k",
		Distance: models.Distance10K,
		Date:     testStart.AddDate(0, 0, 7*16),
		Tier:     models.TierPriority,
	}
	p := Build(testStart, []models.Objective{race}, defaultHistory())

	if len(p.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(p.Cycles))
	}
	c := p.Cycles[0]
	if c.Type != models.CycleRace {
		t.Errorf("cycle type = %q, want %q", c.Type, models.CycleRace)
	}
	if c.Objective == nil || c.Objective.Name != "spring 10k" {
		t.Fatalf("cycle objective = %v, want spring 10k", c.Objective)
	}
	if !c.Allocation.Valid {
		t.Fatal("allocation invalid")
	}
	if got := len(c.Schedule); got != 16 {
		t.Errorf("got %d scheduled weeks, want 16", got)
	}
	for _, w := range p.Warnings {
		if strings.Contains(w, "spacing") || strings.Contains(w, "weeks away") {
			t.Errorf("unexpected spacing warning: %q", w)
		}
	}
}

// TestBuildShortLeadWarns verifies a priority race closer than 8 weeks draws
// an advisory warning and an invalid (empty) schedule, not a failure.
func TestBuildShortLeadWarns(t *testing.T) {
	race := models.Objective{
		Distance: models.Distance5K,
		Date:     testStart.AddDate(0, 0, 7*5),
		Tier:     models.TierPriority,
	}
	p := Build(testStart, []models.Objective{race}, defaultHistory())

	if len(p.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(p.Cycles))
	}
	if p.Cycles[0].Schedule != nil {
		t.Errorf("infeasible cycle has %d scheduled weeks, want none", len(p.Cycles[0].Schedule))
	}
	found := false
	for _, w := range p.Warnings {
		if strings.Contains(w, "weeks away") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a short-lead warning", p.Warnings)
	}
}

// TestBuildMarathonsTooClose verifies two priority marathons six weeks apart
// draw an insufficient-spacing warning while both cycles are still built.
func TestBuildMarathonsTooClose(t *testing.T) {
	first := models.Objective{
		Name:     "city marathon",
		Distance: models.DistanceMarathon,
		Date:     testStart.AddDate(0, 0, 7*20),
		Tier:     models.TierPriority,
	}
	second := models.Objective{
		Name:     "trail marathon",
		Distance: models.DistanceMarathon,
		Date:     first.Date.AddDate(0, 0, 7*6),
		Tier:     models.TierPriority,
	}
	p := Build(testStart, []models.Objective{first, second}, defaultHistory())

	if len(p.Cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(p.Cycles))
	}
	found := false
	for _, w := range p.Warnings {
		if strings.Contains(w, "insufficient spacing") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want an insufficient-spacing warning", p.Warnings)
	}
}

// TestBuildMultiCycleCarryOver verifies the second cycle starts after the
// first race's recovery period and seeds its volume from the first cycle's
// final week.
func TestBuildMultiCycleCarryOver(t *testing.T) {
	first := models.Objective{
		Distance: models.Distance10K,
		Date:     testStart.AddDate(0, 0, 7*14),
		Tier:     models.TierPriority,
	}
	second := models.Objective{
		Distance: models.DistanceHalf,
		Date:     first.Date.AddDate(0, 0, 7*16),
		Tier:     models.TierPriority,
	}
	p := Build(testStart, []models.Objective{first, second}, defaultHistory())

	if len(p.Cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(p.Cycles))
	}
	c1, c2 := p.Cycles[0], p.Cycles[1]
	if len(c1.Schedule) == 0 || len(c2.Schedule) == 0 {
		t.Fatal("both cycles should carry schedules")
	}

	wantStart := first.Date.AddDate(0, 0, 7) // 10km recovery is 7 days
	if !c2.Start.Equal(wantStart) {
		t.Errorf("second cycle start = %v, want %v", c2.Start, wantStart)
	}

	lastVol := c1.Schedule[len(c1.Schedule)-1].VolumeKm
	wantSeed := round1(lastVol * carryOverFraction)
	if got := c2.Schedule[0].VolumeKm; got != wantSeed {
		t.Errorf("second cycle starting volume = %v, want %v (70%% of %v)", got, wantSeed, lastVol)
	}
}

// TestBuildSortsObjectivesByDate verifies out-of-order input still yields
// chronological cycles.
func TestBuildSortsObjectivesByDate(t *testing.T) {
	later := models.Objective{
		Distance: models.DistanceHalf,
		Date:     testStart.AddDate(0, 0, 7*30),
		Tier:     models.TierPriority,
	}
	earlier := models.Objective{
		Distance: models.Distance10K,
		Date:     testStart.AddDate(0, 0, 7*12),
		Tier:     models.TierPriority,
	}
	p := Build(testStart, []models.Objective{later, earlier}, defaultHistory())

	if len(p.Cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(p.Cycles))
	}
	if p.Cycles[0].Objective.Distance != models.Distance10K {
		t.Errorf("first cycle races %s, want %s", p.Cycles[0].Objective.Distance, models.Distance10K)
	}
	if !p.Cycles[0].Start.Before(p.Cycles[1].Start) {
		t.Errorf("cycle starts out of order: %v then %v", p.Cycles[0].Start, p.Cycles[1].Start)
	}
}

func TestWeeksBetween(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{0, 0},
		{6, 0},
		{7, 1},
		{13, 1},
		{112, 16},
		{-7, 0},
	}
	for _, tt := range tests {
		b := testStart.AddDate(0, 0, tt.days)
		if got := weeksBetween(testStart, b); got != tt.want {
			t.Errorf("weeksBetween(+%d days) = %d, want %d", tt.days, got, tt.want)
		}
	}
}
