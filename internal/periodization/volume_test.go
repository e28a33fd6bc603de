package periodization

import (
	"math"
	"testing"

	"github.com/claude/stride/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.05
}

// TestScheduleInvalidAllocation verifies an infeasible allocation yields no
// schedule at all.
func TestScheduleInvalidAllocation(t *testing.T) {
	alloc := Allocate(7, models.Distance10K, 50, true, 7)
	if got := Schedule(alloc, 40, 40, 40, models.Distance10K); got != nil {
		t.Errorf("Schedule(invalid) = %v, want nil", got)
	}
}

// TestScheduleSixteenWeeks10K walks the reference 16-week cycle end to end:
// one record per week, phases in order, base and build deloads at their
// fractions, and a final taper week below the peak maximum.
func TestScheduleSixteenWeeks10K(t *testing.T) {
	alloc := Allocate(16, models.Distance10K, 50, true, 16)
	recs := Schedule(alloc, 40, 35, 40, models.Distance10K)
	if len(recs) != 16 {
		t.Fatalf("got %d records, want 16", len(recs))
	}

	wantPhases := []models.Phase{
		models.PhaseBase, models.PhaseBase, models.PhaseBase, models.PhaseBase, models.PhaseBase, models.PhaseBase,
		models.PhaseBuild, models.PhaseBuild, models.PhaseBuild, models.PhaseBuild, models.PhaseBuild,
		models.PhasePeak, models.PhasePeak, models.PhasePeak, models.PhasePeak,
		models.PhaseTaper,
	}
	for i, rec := range recs {
		if rec.Week != i+1 {
			t.Errorf("record %d: week = %d, want %d", i, rec.Week, i+1)
		}
		if rec.Phase != wantPhases[i] {
			t.Errorf("week %d: phase = %s, want %s", rec.Week, rec.Phase, wantPhases[i])
		}
		if rec.VolumeKm <= 0 {
			t.Errorf("week %d: volume %v, want > 0", rec.Week, rec.VolumeKm)
		}
	}

	// Week 1 runs at the starting volume.
	if recs[0].VolumeKm != 40 {
		t.Errorf("week 1 volume = %v, want 40", recs[0].VolumeKm)
	}

	// Final base week deloads at 75% of the preceding week.
	if !recs[5].Deload {
		t.Error("week 6 not marked deload")
	}
	if want := recs[4].VolumeKm * Tuning.BaseDeloadFraction; !almostEqual(recs[5].VolumeKm, want) {
		t.Errorf("base deload volume = %v, want %v", recs[5].VolumeKm, want)
	}

	// Build week 5 (plan week 11) deloads at 70% of the running volume.
	if !recs[10].Deload {
		t.Error("week 11 not marked deload")
	}
	if want := recs[9].VolumeKm * Tuning.BuildDeloadFraction; !almostEqual(recs[10].VolumeKm, want) {
		t.Errorf("build deload volume = %v, want %v", recs[10].VolumeKm, want)
	}

	// Every deload sits below the week before it.
	for i := 1; i < len(recs); i++ {
		if recs[i].Deload && recs[i].VolumeKm >= recs[i-1].VolumeKm {
			t.Errorf("week %d: deload volume %v not below previous %v",
				recs[i].Week, recs[i].VolumeKm, recs[i-1].VolumeKm)
		}
	}

	// The race-week taper lands below the peak-phase maximum.
	peakMax := 0.0
	for _, rec := range recs {
		if rec.Phase == models.PhasePeak && rec.VolumeKm > peakMax {
			peakMax = rec.VolumeKm
		}
	}
	last := recs[len(recs)-1]
	if last.Phase != models.PhaseTaper {
		t.Fatalf("last week phase = %s, want taper", last.Phase)
	}
	if last.VolumeKm >= peakMax {
		t.Errorf("taper volume %v not below peak max %v", last.VolumeKm, peakMax)
	}
}

// TestScheduleRampBack verifies the two-step return after a build deload: 92%
// of the pre-deload volume, then 100%.
func TestScheduleRampBack(t *testing.T) {
	alloc := models.PhaseAllocation{
		Build:       8,
		DeloadWeeks: []int{5},
		Valid:       true,
		TaperType:   models.TaperNone,
	}
	recs := Schedule(alloc, 50, 60, 60, models.Distance10K)
	if len(recs) != 8 {
		t.Fatalf("got %d records, want 8", len(recs))
	}
	want := []float64{55, 60.5, 66.6, 73.3, 51.3, 67.4, 73.3, 80.6}
	for i, rec := range recs {
		if !almostEqual(rec.VolumeKm, want[i]) {
			t.Errorf("week %d: volume = %v, want %v", rec.Week, rec.VolumeKm, want[i])
		}
	}
	if !recs[4].Deload {
		t.Error("week 5 not marked deload")
	}
}

// TestScheduleConsecutiveDeloadsResetRamp verifies a deload landing mid-ramp
// restarts the ramp against the original pre-deload reference.
func TestScheduleConsecutiveDeloadsResetRamp(t *testing.T) {
	alloc := models.PhaseAllocation{
		Build:       8,
		DeloadWeeks: []int{4, 5},
		Valid:       true,
		TaperType:   models.TaperNone,
	}
	recs := Schedule(alloc, 50, 60, 60, models.Distance10K)
	want := []float64{55, 60.5, 66.6, 46.6, 46.6, 61.3, 66.6, 73.3}
	for i, rec := range recs {
		if !almostEqual(rec.VolumeKm, want[i]) {
			t.Errorf("week %d: volume = %v, want %v", rec.Week, rec.VolumeKm, want[i])
		}
	}
}

// TestScheduleAbsoluteCap verifies no schedule ever exceeds 210 km/week no
// matter how aggressive the inputs are.
func TestScheduleAbsoluteCap(t *testing.T) {
	alloc := models.PhaseAllocation{
		Build:     10,
		Valid:     true,
		TaperType: models.TaperNone,
	}
	recs := Schedule(alloc, 205, 200, 200, models.DistanceMarathon)
	for _, rec := range recs {
		if rec.VolumeKm > Tuning.AbsoluteCapKm {
			t.Errorf("week %d: volume %v exceeds absolute cap %v",
				rec.Week, rec.VolumeKm, Tuning.AbsoluteCapKm)
		}
	}
}

// TestTaperDecayRates verifies the softer decay kicks in above 100 km/week.
func TestTaperDecayRates(t *testing.T) {
	alloc := models.PhaseAllocation{Taper: 2, Valid: true, TaperType: models.TaperStandard}

	high := Schedule(alloc, 120, 150, 150, models.DistanceMarathon)
	if len(high) != 2 {
		t.Fatalf("got %d records, want 2", len(high))
	}
	if !almostEqual(high[0].VolumeKm, 84) || !almostEqual(high[1].VolumeKm, 58.8) {
		t.Errorf("high-volume taper = %v, %v, want 84, 58.8", high[0].VolumeKm, high[1].VolumeKm)
	}

	low := Schedule(alloc, 60, 60, 60, models.Distance10K)
	if !almostEqual(low[0].VolumeKm, 45) || !almostEqual(low[1].VolumeKm, 33.8) {
		t.Errorf("low-volume taper = %v, %v, want 45, 33.8", low[0].VolumeKm, low[1].VolumeKm)
	}
}

// TestScheduleCoercesHistory verifies nonpositive athlete-history inputs fall
// back to the default weekly volume instead of collapsing the schedule.
func TestScheduleCoercesHistory(t *testing.T) {
	alloc := ContinuousAllocation(12, false)
	recs := Schedule(alloc, 0, 0, 0, models.DistanceHalf)
	if len(recs) != 12 {
		t.Fatalf("got %d records, want 12", len(recs))
	}
	if recs[0].VolumeKm != models.DefaultWeeklyKm {
		t.Errorf("week 1 volume = %v, want default %v", recs[0].VolumeKm, models.DefaultWeeklyKm)
	}
	for _, rec := range recs {
		if rec.VolumeKm <= 0 {
			t.Errorf("week %d: volume %v, want > 0", rec.Week, rec.VolumeKm)
		}
	}
}
