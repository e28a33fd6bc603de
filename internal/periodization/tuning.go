// Package periodization partitions a training cycle into phases and builds
// the week-by-week volume schedule.
package periodization

import "github.com/claude/stride/internal/models"

// Tuning gathers every numeric constant of the periodization model in one
// auditable table. Rates are per-week fractions, volumes are km.
var Tuning = struct {
	MinCycleWeeks   int // below this a cycle is infeasible
	ShortCycleWeeks int // at or below this the athlete gets a heads-up

	BaseWeeksFirstCycle int // first cycle of a long plan
	BaseWeeksDefault    int
	LongPlanWeeks       int // plan length that unlocks the longer base

	DeloadEvery int // Build deload cadence

	BaseGrowthBelowAvg float64
	BaseGrowthAboveAvg float64
	BaseIncrementMinKm float64
	BaseIncrementMaxKm float64

	BuildGrowth float64

	PeakGrowth         float64
	PeakIncrementMinKm float64
	PeakIncrementMaxKm float64

	ResidualGrowth float64 // growth once the global ceiling is reached

	BaseDeloadFraction  float64
	BuildDeloadFraction float64
	RampStepFraction    float64 // first week back after a deload
	CapSlackPerDeloadKm float64 // Build cap loosens per deload seen

	TaperDecay       float64
	TaperDecayHigh   float64
	TaperHighVolumeKm float64 // above this, use the softer decay

	AbsoluteCapKm float64
}{
	MinCycleWeeks:   8,
	ShortCycleWeeks: 10,

	BaseWeeksFirstCycle: 6,
	BaseWeeksDefault:    4,
	LongPlanWeeks:       12,

	DeloadEvery: 5,

	BaseGrowthBelowAvg: 0.20,
	BaseGrowthAboveAvg: 0.10,
	BaseIncrementMinKm: 5,
	BaseIncrementMaxKm: 20,

	BuildGrowth: 0.10,

	PeakGrowth:         0.05,
	PeakIncrementMinKm: 5,
	PeakIncrementMaxKm: 10,

	ResidualGrowth: 0.03,

	BaseDeloadFraction:  0.75,
	BuildDeloadFraction: 0.70,
	RampStepFraction:    0.92,
	CapSlackPerDeloadKm: 2,

	TaperDecay:        0.75,
	TaperDecayHigh:    0.70,
	TaperHighVolumeKm: 100,

	AbsoluteCapKm: 210,
}

// distanceTuning holds the per-race-distance knobs.
type distanceTuning struct {
	PeakMaxWeeks  int
	BuildMinWeeks int
	RecoveryDays  int     // mandatory gap after racing this distance
	CeilingFactor float64 // annual weekly average multiplier
	CeilingFloorKm float64
}

var distances = map[models.DistanceCategory]distanceTuning{
	models.Distance5K:       {PeakMaxWeeks: 3, BuildMinWeeks: 4, RecoveryDays: 5, CeilingFactor: 1.3, CeilingFloorKm: 35},
	models.Distance10K:      {PeakMaxWeeks: 4, BuildMinWeeks: 4, RecoveryDays: 7, CeilingFactor: 1.4, CeilingFloorKm: 40},
	models.DistanceHalf:     {PeakMaxWeeks: 5, BuildMinWeeks: 5, RecoveryDays: 10, CeilingFactor: 1.5, CeilingFloorKm: 50},
	models.DistanceMarathon: {PeakMaxWeeks: 6, BuildMinWeeks: 6, RecoveryDays: 14, CeilingFactor: 1.6, CeilingFloorKm: 60},
}

// phaseCapFactor scales the trailing 4-week average into each phase's local
// volume cap.
var phaseCapFactor = map[models.Phase]float64{
	models.PhaseBase:  1.4,
	models.PhaseBuild: 1.5,
	models.PhasePeak:  1.55,
}

// distanceFor returns the tuning row for a category, defaulting to 10km for
// unknown values so the scheduler never fails on input.
func distanceFor(d models.DistanceCategory) distanceTuning {
	if t, ok := distances[d]; ok {
		return t
	}
	return distances[models.Distance10K]
}

// RecoveryDays returns the mandatory post-race recovery gap for a distance.
func RecoveryDays(d models.DistanceCategory) int {
	return distanceFor(d).RecoveryDays
}

// CeilingKm computes the global volume ceiling from the athlete's annual
// weekly average: scaled by distance, floored at a distance minimum, never
// above the absolute cap.
func CeilingKm(annualWeeklyKm float64, d models.DistanceCategory) float64 {
	t := distanceFor(d)
	if annualWeeklyKm <= 0 {
		annualWeeklyKm = models.DefaultWeeklyKm
	}
	ceiling := annualWeeklyKm * t.CeilingFactor
	if ceiling < t.CeilingFloorKm {
		ceiling = t.CeilingFloorKm
	}
	if ceiling > Tuning.AbsoluteCapKm {
		ceiling = Tuning.AbsoluteCapKm
	}
	return ceiling
}
