package periodization

import (
	"math"

	"github.com/claude/stride/internal/models"
)

// rampState tracks the controlled return to pre-deload volume. A deload week
// sets two pending ramp steps (92% then 100% of the pre-deload level); a new
// deload landing mid-ramp resets the state without touching the pre-deload
// reference.
type rampState struct {
	pending   int // remaining ramp steps after a deload
	preDeload float64
}

// scheduler carries the week-over-week progression state.
type scheduler struct {
	cur      float64
	ceiling  float64
	phaseCap float64
	ramp     rampState
	history  []float64 // non-deload volumes, for trailing averages
	records  []models.WeekRecord
	week     int
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Schedule expands a phase allocation into the cycle's week-indexed volume
// schedule. startKm seeds the progression; annualWeeklyKm and recent4WeekKm
// bound it. Nonpositive history inputs are coerced to the default weekly
// volume. An invalid allocation yields no schedule.
func Schedule(alloc models.PhaseAllocation, startKm, annualWeeklyKm, recent4WeekKm float64, d models.DistanceCategory) []models.WeekRecord {
	if !alloc.Valid {
		return nil
	}
	if startKm <= 0 {
		startKm = models.DefaultWeeklyKm
	}
	if annualWeeklyKm <= 0 {
		annualWeeklyKm = models.DefaultWeeklyKm
	}
	if recent4WeekKm <= 0 {
		recent4WeekKm = models.DefaultWeeklyKm
	}

	s := &scheduler{
		cur:     round1(startKm),
		ceiling: CeilingKm(annualWeeklyKm, d),
	}

	s.phaseCap = capVolume(recent4WeekKm * phaseCapFactor[models.PhaseBase])
	s.baseWeeks(alloc.Base, annualWeeklyKm)

	s.phaseCap = capVolume(s.trailingAvg(recent4WeekKm) * phaseCapFactor[models.PhaseBuild])
	s.buildWeeks(alloc.Build, alloc.DeloadWeeks)

	s.phaseCap = capVolume(s.trailingAvg(recent4WeekKm) * phaseCapFactor[models.PhasePeak])
	s.peakWeeks(alloc.Peak)

	s.taperWeeks(alloc.Taper)

	return s.records
}

func capVolume(v float64) float64 {
	if v > Tuning.AbsoluteCapKm {
		return Tuning.AbsoluteCapKm
	}
	return round1(v)
}

// trailingAvg averages the last up-to-4 non-deload weeks already scheduled.
// This cross-phase averaging keeps a short spike in one phase from inflating
// the next phase's cap.
func (s *scheduler) trailingAvg(fallback float64) float64 {
	n := len(s.history)
	if n == 0 {
		return fallback
	}
	window := 4
	if n < window {
		window = n
	}
	sum := 0.0
	for _, v := range s.history[n-window:] {
		sum += v
	}
	return sum / float64(window)
}

func (s *scheduler) record(phase models.Phase, vol float64, deload bool) {
	s.week++
	vol = round1(vol)
	s.records = append(s.records, models.WeekRecord{
		Week:     s.week,
		Phase:    phase,
		VolumeKm: vol,
		Deload:   deload,
	})
	if !deload {
		s.history = append(s.history, vol)
	}
}

// grow advances the running volume one week. Below the global ceiling the
// increment is rate*current, optionally clamped into [minInc, maxInc] km and
// capped at the phase cap. At or above the ceiling growth falls to the flat
// residual rate with no band, bounded only by the absolute cap.
func (s *scheduler) grow(rate float64, banded bool, minInc, maxInc float64) {
	if s.cur >= s.ceiling {
		s.cur = round1(s.cur * (1 + Tuning.ResidualGrowth))
		if s.cur > Tuning.AbsoluteCapKm {
			s.cur = Tuning.AbsoluteCapKm
		}
		return
	}
	inc := s.cur * rate
	if banded {
		if inc < minInc {
			inc = minInc
		}
		if inc > maxInc {
			inc = maxInc
		}
	}
	next := s.cur + inc
	if next > s.phaseCap {
		next = s.phaseCap
	}
	if next > Tuning.AbsoluteCapKm {
		next = Tuning.AbsoluteCapKm
	}
	s.cur = round1(next)
}

// stepRamp plays one pending ramp step. Reports false when no ramp is
// active and normal growth should apply.
func (s *scheduler) stepRamp() bool {
	switch s.ramp.pending {
	case 2:
		s.cur = s.capped(s.ramp.preDeload * Tuning.RampStepFraction)
		s.ramp.pending = 1
	case 1:
		s.cur = s.capped(s.ramp.preDeload)
		s.ramp.pending = 0
	default:
		return false
	}
	return true
}

func (s *scheduler) capped(v float64) float64 {
	if v > s.phaseCap {
		v = s.phaseCap
	}
	if v > Tuning.AbsoluteCapKm {
		v = Tuning.AbsoluteCapKm
	}
	return round1(v)
}

func (s *scheduler) baseWeeks(n int, annualWeeklyKm float64) {
	for i := 1; i <= n; i++ {
		if i == 1 {
			// First week runs at the starting volume.
			s.record(models.PhaseBase, s.cur, false)
			continue
		}
		if i == n && n >= 2 {
			// Final base week deloads; the undeloaded level remains the
			// reference for the build-phase ramp back.
			s.ramp = rampState{pending: 2, preDeload: s.cur}
			s.record(models.PhaseBase, s.cur*Tuning.BaseDeloadFraction, true)
			continue
		}
		rate := Tuning.BaseGrowthAboveAvg
		if s.cur < annualWeeklyKm {
			rate = Tuning.BaseGrowthBelowAvg
		}
		s.grow(rate, true, Tuning.BaseIncrementMinKm, Tuning.BaseIncrementMaxKm)
		s.record(models.PhaseBase, s.cur, false)
	}
}

func (s *scheduler) buildWeeks(n int, deloadWeeks []int) {
	deload := make(map[int]bool, len(deloadWeeks))
	for _, w := range deloadWeeks {
		deload[w] = true
	}
	for i := 1; i <= n; i++ {
		if deload[i] {
			if s.ramp.pending == 0 {
				s.ramp.preDeload = s.cur
			}
			// A deload before the previous ramp completed restarts the
			// ramp against the original reference.
			s.ramp.pending = 2
			s.phaseCap = capVolume(s.phaseCap + Tuning.CapSlackPerDeloadKm)
			s.record(models.PhaseBuild, s.cur*Tuning.BuildDeloadFraction, true)
			continue
		}
		if !s.stepRamp() {
			s.grow(Tuning.BuildGrowth, false, 0, 0)
		}
		s.record(models.PhaseBuild, s.cur, false)
	}
}

func (s *scheduler) peakWeeks(n int) {
	for i := 1; i <= n; i++ {
		if !s.stepRamp() {
			s.grow(Tuning.PeakGrowth, true, Tuning.PeakIncrementMinKm, Tuning.PeakIncrementMaxKm)
		}
		s.record(models.PhasePeak, s.cur, false)
	}
}

func (s *scheduler) taperWeeks(n int) {
	if n == 0 {
		return
	}
	decay := Tuning.TaperDecay
	if s.cur > Tuning.TaperHighVolumeKm {
		decay = Tuning.TaperDecayHigh
	}
	for i := 1; i <= n; i++ {
		s.cur = round1(s.cur * decay)
		s.record(models.PhaseTaper, s.cur, false)
	}
}
