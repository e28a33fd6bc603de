// Package plan assembles complete multi-cycle training plans from the
// athlete's objectives and history.
package plan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/periodization"
)

const (
	// continuousWeeks is the length of the open-ended cycle built when no
	// priority objective exists.
	continuousWeeks = 24

	// minLeadWeeks is the advisory minimum between the plan start (or the
	// end of the previous recovery) and a priority race.
	minLeadWeeks = 8

	// carryOverFraction sets the next cycle's starting volume from the last
	// scheduled week, accounting for post-race fatigue and taper rebound.
	carryOverFraction = 0.70
)

// Build produces the full plan: one cycle per priority objective, or a
// single continuous cycle when none exists. Spacing problems are advisory
// warnings, never construction failures.
func Build(start time.Time, objectives []models.Objective, hist models.AthleteHistory) models.Plan {
	p := models.Plan{Start: start}

	var priorities []models.Objective
	for _, o := range objectives {
		if o.Tier == models.TierPriority {
			priorities = append(priorities, o)
		}
	}
	sort.Slice(priorities, func(i, j int) bool { return priorities[i].Date.Before(priorities[j].Date) })

	if len(priorities) == 0 {
		return buildContinuous(p, hist)
	}

	p.Warnings = append(p.Warnings, spacingWarnings(start, priorities)...)

	startVol := hist.LastWeekKm
	if startVol <= 0 {
		startVol = models.DefaultWeeklyKm
	}
	recent4w := hist.Avg4WeekKm
	annualWeekly := hist.AnnualWeeklyKm()
	planTotalWeeks := weeksBetween(start, priorities[len(priorities)-1].Date)

	cycleStart := start
	for i := range priorities {
		obj := priorities[i]
		totalWeeks := weeksBetween(cycleStart, obj.Date)
		estPeak := periodization.CeilingKm(annualWeekly, obj.Distance)

		alloc := periodization.Allocate(totalWeeks, obj.Distance, estPeak, i == 0, planTotalWeeks)
		for _, w := range alloc.Warnings {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s: %s", objectiveLabel(obj), w))
		}

		cycle := models.Cycle{
			Objective:  &priorities[i],
			Allocation: alloc,
			Start:      cycleStart,
			Type:       models.CycleRace,
		}
		if alloc.Valid {
			cycle.Schedule = periodization.Schedule(alloc, startVol, annualWeekly, recent4w, obj.Distance)
		}
		p.Cycles = append(p.Cycles, cycle)

		if n := len(cycle.Schedule); n > 0 {
			startVol = round1(cycle.Schedule[n-1].VolumeKm * carryOverFraction)
			recent4w = trailingScheduleAvg(cycle.Schedule)
		}
		cycleStart = obj.Date.AddDate(0, 0, periodization.RecoveryDays(obj.Distance))
	}

	return p
}

func buildContinuous(p models.Plan, hist models.AthleteHistory) models.Plan {
	p.Warnings = append(p.Warnings,
		"no priority objective declared: building a 24-week continuous base and build plan")

	alloc := periodization.ContinuousAllocation(continuousWeeks, true)
	startVol := hist.LastWeekKm
	if startVol <= 0 {
		startVol = models.DefaultWeeklyKm
	}
	// Continuous mode trains toward general capacity; size the ceiling as a
	// half-marathon block.
	sched := periodization.Schedule(alloc, startVol, hist.AnnualWeeklyKm(), hist.Avg4WeekKm, models.DistanceHalf)

	p.Cycles = append(p.Cycles, models.Cycle{
		Allocation: alloc,
		Schedule:   sched,
		Start:      p.Start,
		Type:       models.CycleContinuous,
	})
	return p
}

// spacingWarnings checks lead time to the first priority race and the gap
// between consecutive ones: each race needs its predecessor's recovery
// period plus a minimum preparation window.
func spacingWarnings(start time.Time, priorities []models.Objective) []string {
	var warnings []string

	if lead := weeksBetween(start, priorities[0].Date); lead < minLeadWeeks {
		warnings = append(warnings, fmt.Sprintf(
			"%s is only %d weeks away; at least %d weeks of preparation are recommended",
			objectiveLabel(priorities[0]), lead, minLeadWeeks))
	}

	for i := 1; i < len(priorities); i++ {
		prev, next := priorities[i-1], priorities[i]
		recoveryEnd := prev.Date.AddDate(0, 0, periodization.RecoveryDays(prev.Distance))
		if weeksBetween(recoveryEnd, next.Date) < minLeadWeeks {
			warnings = append(warnings, fmt.Sprintf(
				"insufficient spacing between %s and %s: %d recovery days plus %d preparation weeks are recommended",
				objectiveLabel(prev), objectiveLabel(next),
				periodization.RecoveryDays(prev.Distance), minLeadWeeks))
		}
	}
	return warnings
}

func objectiveLabel(o models.Objective) string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("%s on %s", o.Distance, o.Date.Format("2006-01-02"))
}

// weeksBetween counts whole weeks from a to b, never negative.
func weeksBetween(a, b time.Time) int {
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// trailingScheduleAvg averages the last up-to-4 non-deload weeks of a
// finished cycle, seeding the next cycle's phase caps.
func trailingScheduleAvg(sched []models.WeekRecord) float64 {
	var vols []float64
	for _, w := range sched {
		if !w.Deload {
			vols = append(vols, w.VolumeKm)
		}
	}
	if len(vols) == 0 {
		return 0
	}
	window := 4
	if len(vols) < window {
		window = len(vols)
	}
	sum := 0.0
	for _, v := range vols[len(vols)-window:] {
		sum += v
	}
	return sum / float64(window)
}
