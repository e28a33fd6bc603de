package session

import "github.com/claude/stride/internal/models"

// Role classifies what a slot is for before a template is chosen.
type Role string

const (
	RoleLong        Role = "long"
	RoleHighQuality Role = "high_quality"
	RoleLowQuality  Role = "low_quality"
	RoleEasy        Role = "easy"
	RoleRecovery    Role = "recovery"
)

// Slot is an abstract descriptor of one week's workout: what kind of
// session, how hard, and what share of the weekly volume it takes. Share 0
// means the slot is filled from the leftover volume pool.
type Slot struct {
	Role        Role
	Type        models.SessionType
	Effort      int
	Share       float64
	LongVariant bool // long vs short easy run, for leftover weighting
}

// BuildSlots produces the week's ordered slot list.
//
// progress is the [0,1] position within the phase; sessions is the weekly
// session count. Quality slots scale with the session count, their efforts
// rise with phase and progress under fixed ceilings, and deload weeks drop
// quality entirely and cap every effort.
func BuildSlots(phase models.Phase, progress float64, sessions int, deload bool, d models.DistanceCategory, weekKm float64) []Slot {
	if sessions <= 0 {
		sessions = Tuning.DefaultSessions
	}
	if sessions > 7 {
		sessions = 7
	}

	if deload {
		return deloadSlots(sessions)
	}

	slots := make([]Slot, 0, sessions)

	longEffort := 3
	if phase == models.PhaseBuild || phase == models.PhasePeak {
		longEffort = 4
	}
	slots = append(slots, Slot{
		Role:        RoleLong,
		Type:        models.TypeLong,
		Effort:      longEffort,
		Share:       Tuning.LongRunShare,
		LongVariant: true,
	})

	quality := qualityCount(phase, sessions)
	if quality > 0 {
		high, low := qualityTypes(phase, d)

		highEffort := phaseHighEffort[phase]
		if progress >= 0.5 {
			highEffort++
		}
		ceiling := Tuning.HighEffortCap
		if weekKm >= Tuning.HighVolumeUnlockKm {
			ceiling = Tuning.HighEffortCapUnlocked
		}
		if highEffort > ceiling {
			highEffort = ceiling
		}
		slots = append(slots, Slot{
			Role:   RoleHighQuality,
			Type:   high,
			Effort: highEffort,
			Share:  Tuning.QualityShare,
		})

		if quality > 1 {
			lowEffort := highEffort - 2
			if lowEffort < 4 {
				lowEffort = 4
			}
			if lowEffort > Tuning.LowQualityEffortCap {
				lowEffort = Tuning.LowQualityEffortCap
			}
			slots = append(slots, Slot{
				Role:   RoleLowQuality,
				Type:   low,
				Effort: lowEffort,
				Share:  Tuning.QualityShare,
			})
		}
	}

	fillEasy(&slots, sessions-len(slots))
	return slots
}

// qualityCount scales elevated-effort slots with the session count. Base
// weeks under 3 sessions stay entirely easy; later phases allow one quality
// session even on a 2-day week.
func qualityCount(phase models.Phase, sessions int) int {
	switch {
	case sessions >= 5:
		return 2
	case sessions >= 3:
		return 1
	case sessions == 2 && phase != models.PhaseBase:
		return 1
	default:
		return 0
	}
}

// deloadSlots keeps the long slot but makes it easy-effort, and fills the
// rest with easy and recovery running. Nothing exceeds the deload RPE cap.
func deloadSlots(sessions int) []Slot {
	slots := []Slot{{
		Role:        RoleLong,
		Type:        models.TypeLong,
		Effort:      3,
		Share:       Tuning.LongRunShare,
		LongVariant: true,
	}}
	fillEasy(&slots, sessions-1)
	for i := range slots {
		if slots[i].Effort > Tuning.DeloadMaxEffort {
			slots[i].Effort = Tuning.DeloadMaxEffort
		}
	}
	return slots
}

// fillEasy appends n easy/recovery slots, alternating long and short
// variants for variety; with 2 or more fill slots the last becomes a
// recovery jog.
func fillEasy(slots *[]Slot, n int) {
	for i := 0; i < n; i++ {
		if n >= 2 && i == n-1 {
			*slots = append(*slots, Slot{
				Role:   RoleRecovery,
				Type:   models.TypeRecovery,
				Effort: 2,
			})
			continue
		}
		*slots = append(*slots, Slot{
			Role:        RoleEasy,
			Type:        models.TypeEasy,
			Effort:      3,
			LongVariant: i%2 == 0,
		})
	}
}
