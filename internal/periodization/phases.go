package periodization

import (
	"fmt"

	"github.com/claude/stride/internal/models"
)

// taperFor sizes the pre-race reduction by distance and expected Peak-phase
// volume. Marathon prep at high volume earns a longer, softer taper.
func taperFor(d models.DistanceCategory, estPeakVolumeKm float64) (int, models.TaperKind) {
	switch d {
	case models.DistanceMarathon:
		if estPeakVolumeKm >= 80 {
			return 3, models.TaperExtended
		}
		return 2, models.TaperStandard
	case models.DistanceHalf:
		return 2, models.TaperStandard
	default:
		return 1, models.TaperShort
	}
}

// Allocate partitions totalWeeks into Base/Build/Peak/Taper for one cycle.
//
// Infeasible or degraded allocations are never errors: a cycle shorter than
// the floor comes back with Valid=false, and every degradation step (shrunk
// peak, dropped taper, dropped peak) appends a human-readable warning.
func Allocate(totalWeeks int, d models.DistanceCategory, estPeakVolumeKm float64, firstCycle bool, planTotalWeeks int) models.PhaseAllocation {
	alloc := models.PhaseAllocation{TaperType: models.TaperNone}

	if totalWeeks < Tuning.MinCycleWeeks {
		alloc.Warnings = append(alloc.Warnings, fmt.Sprintf(
			"cycle needs at least %d weeks, only %d available: race is too close to build a full preparation",
			Tuning.MinCycleWeeks, totalWeeks))
		return alloc
	}
	if totalWeeks <= Tuning.ShortCycleWeeks {
		alloc.Warnings = append(alloc.Warnings, fmt.Sprintf(
			"only %d weeks available: the preparation will be compressed", totalWeeks))
	}

	alloc.Base = Tuning.BaseWeeksDefault
	if firstCycle && planTotalWeeks > Tuning.LongPlanWeeks {
		alloc.Base = Tuning.BaseWeeksFirstCycle
	}

	alloc.Taper, alloc.TaperType = taperFor(d, estPeakVolumeKm)

	dt := distanceFor(d)
	remaining := totalWeeks - alloc.Base - alloc.Taper

	switch {
	case remaining-dt.PeakMaxWeeks >= dt.BuildMinWeeks:
		// Ideal: full peak, build absorbs the rest.
		alloc.Peak = dt.PeakMaxWeeks
		alloc.Build = remaining - alloc.Peak

	case remaining-dt.BuildMinWeeks >= 1:
		alloc.Peak = remaining - dt.BuildMinWeeks
		alloc.Build = dt.BuildMinWeeks
		alloc.Warnings = append(alloc.Warnings, fmt.Sprintf(
			"peak phase shortened to %d weeks to preserve the build minimum", alloc.Peak))

	default:
		// Not enough room even for a 1-week peak: sacrifice the taper.
		alloc.Taper = 0
		alloc.TaperType = models.TaperNone
		alloc.Warnings = append(alloc.Warnings, "taper dropped: not enough weeks before the race")
		remaining = totalWeeks - alloc.Base

		if remaining-dt.BuildMinWeeks >= 1 {
			alloc.Peak = remaining - dt.BuildMinWeeks
			if alloc.Peak > dt.PeakMaxWeeks {
				alloc.Peak = dt.PeakMaxWeeks
			}
			alloc.Build = remaining - alloc.Peak
			alloc.Warnings = append(alloc.Warnings, fmt.Sprintf(
				"peak phase shortened to %d weeks", alloc.Peak))
		} else {
			alloc.Peak = 0
			alloc.Build = remaining
			alloc.Warnings = append(alloc.Warnings, "peak phase dropped: cycle reduced to base and build work")
			if alloc.Build < dt.BuildMinWeeks {
				alloc.Warnings = append(alloc.Warnings, fmt.Sprintf(
					"build phase is %d weeks, below the %d-week minimum for this distance",
					alloc.Build, dt.BuildMinWeeks))
			}
		}
	}

	alloc.DeloadWeeks = deloadIndices(alloc.Build)

	if got := alloc.TotalWeeks(); got != totalWeeks {
		alloc.Warnings = append(alloc.Warnings, fmt.Sprintf(
			"allocated %d weeks but %d were available", got, totalWeeks))
	}

	alloc.Valid = true
	return alloc
}

// ContinuousAllocation builds the open-ended Base+Build split used when no
// priority objective exists: no peak, no taper.
func ContinuousAllocation(totalWeeks int, firstCycle bool) models.PhaseAllocation {
	alloc := models.PhaseAllocation{Valid: true, TaperType: models.TaperNone}
	alloc.Base = Tuning.BaseWeeksDefault
	if firstCycle && totalWeeks > Tuning.LongPlanWeeks {
		alloc.Base = Tuning.BaseWeeksFirstCycle
	}
	alloc.Build = totalWeeks - alloc.Base
	alloc.DeloadWeeks = deloadIndices(alloc.Build)
	return alloc
}

// deloadIndices returns the 1-based Build weeks to deload: every 5th week,
// plus the final week when it is not already a multiple of 5. When the last
// two land within one week of each other the second-to-last is removed.
func deloadIndices(buildWeeks int) []int {
	var idx []int
	for w := Tuning.DeloadEvery; w <= buildWeeks; w += Tuning.DeloadEvery {
		idx = append(idx, w)
	}
	if buildWeeks > 0 && buildWeeks%Tuning.DeloadEvery != 0 {
		idx = append(idx, buildWeeks)
	}
	if n := len(idx); n >= 2 && idx[n-1]-idx[n-2] <= 1 {
		idx = append(idx[:n-2], idx[n-1])
	}
	return idx
}
