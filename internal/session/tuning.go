// Package session turns an abstract weekly volume and phase into concrete
// dated workouts: slot building, template resolution, volume distribution,
// and day assignment.
package session

import (
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/vdot"
)

// Tuning gathers the session-generation constants in one table.
var Tuning = struct {
	LongRunShare float64 // fraction of weekly volume for the long run
	QualityShare float64 // fraction per quality session

	EasyLongWeight  float64 // leftover-volume weight for "long" easy runs
	EasyShortWeight float64 // and for "short" easy runs / recovery jogs

	DeloadScale     float64 // distance multiplier on deload weeks
	DeloadMaxEffort int

	LowQualityEffortCap int // absolute RPE cap for the second quality slot
	HighEffortCap       int
	HighEffortCapUnlocked int     // with enough weekly volume
	HighVolumeUnlockKm    float64 // weekly km that unlocks the higher cap

	HardEffortFloor int // sessions at or above this count as "hard" for spacing

	DefaultSessions   int
	DefaultWarmupMin  float64
	DefaultCooldownMin float64
}{
	LongRunShare: 0.35,
	QualityShare: 0.15,

	EasyLongWeight:  1.6,
	EasyShortWeight: 1.0,

	DeloadScale:     0.75,
	DeloadMaxEffort: 4,

	LowQualityEffortCap:   6,
	HighEffortCap:         8,
	HighEffortCapUnlocked: 9,
	HighVolumeUnlockKm:    50,

	HardEffortFloor: 6,

	DefaultSessions:    4,
	DefaultWarmupMin:   15,
	DefaultCooldownMin: 10,
}

// longRunCapKm caps the long run's distance per target race.
var longRunCapKm = map[models.DistanceCategory]float64{
	models.Distance5K:       16,
	models.Distance10K:      18,
	models.DistanceHalf:     24,
	models.DistanceMarathon: 32,
}

// longRunMaxMin caps the long run's estimated duration per phase and race.
// Converted back to distance with the easy-zone mid pace.
var longRunMaxMin = map[models.Phase]map[models.DistanceCategory]float64{
	models.PhaseBase: {
		models.Distance5K: 95, models.Distance10K: 100,
		models.DistanceHalf: 110, models.DistanceMarathon: 120,
	},
	models.PhaseBuild: {
		models.Distance5K: 100, models.Distance10K: 110,
		models.DistanceHalf: 130, models.DistanceMarathon: 150,
	},
	models.PhasePeak: {
		models.Distance5K: 100, models.Distance10K: 110,
		models.DistanceHalf: 140, models.DistanceMarathon: 170,
	},
	models.PhaseTaper: {
		models.Distance5K: 75, models.Distance10K: 80,
		models.DistanceHalf: 90, models.DistanceMarathon: 100,
	},
}

// phaseHighEffort is the starting RPE for the primary quality slot; phase
// progress can raise it by one.
var phaseHighEffort = map[models.Phase]int{
	models.PhaseBase:  5,
	models.PhaseBuild: 6,
	models.PhasePeak:  7,
	models.PhaseTaper: 5,
}

// qualityTypes picks the workout types for the two quality slots. Peak is
// race-specific.
func qualityTypes(phase models.Phase, d models.DistanceCategory) (high, low models.SessionType) {
	switch phase {
	case models.PhaseBase:
		return models.TypeTempo, models.TypeThreshold
	case models.PhaseBuild:
		return models.TypeInterval, models.TypeThreshold
	case models.PhasePeak:
		switch d {
		case models.Distance5K, models.Distance10K:
			return models.TypeInterval, models.TypeThreshold
		case models.DistanceHalf:
			return models.TypeThreshold, models.TypeTempo
		default:
			return models.TypeTempo, models.TypeThreshold
		}
	default: // taper keeps a single short sharpener
		return models.TypeTempo, models.TypeThreshold
	}
}

// defaultZone maps each session type to its pace zone when a template does
// not specify one.
var defaultZone = map[models.SessionType]vdot.Zone{
	models.TypeEasy:      vdot.ZoneEasy,
	models.TypeLong:      vdot.ZoneEasy,
	models.TypeRecovery:  vdot.ZoneRecovery,
	models.TypeThreshold: vdot.ZoneThreshold,
	models.TypeInterval:  vdot.ZoneInterval,
	models.TypeTempo:     vdot.ZoneTempo,
}

// phaseObjective is the human-readable goal attached to each week.
var phaseObjective = map[models.Phase]string{
	models.PhaseBase:  "Build the aerobic foundation: volume first, intensity light.",
	models.PhaseBuild: "Introduce structured intensity on top of the aerobic base.",
	models.PhasePeak:  "Sharpen race-specific fitness at goal pace.",
	models.PhaseTaper: "Reduce volume, keep a touch of intensity, arrive fresh.",
}
