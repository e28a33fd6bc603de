package session

import (
	"time"

	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/vdot"
)

// Generate expands a plan's volume schedule into fully dated weekly plans.
// It is the package's top-level entry point; each call owns an isolated
// anti-repetition state.
func Generate(p models.Plan, avail models.Availability, zones vdot.ZoneSet, lib *library.Catalog, startDate time.Time) []models.WeekPlan {
	return NewGenerator(lib, zones).GenerateWeeks(p, avail, startDate)
}

// GenerateWeeks runs the four-stage pipeline (slots, resolution, volume
// distribution, day assignment) once per scheduled week, threading the
// anti-repetition state across weeks.
func (g *Generator) GenerateWeeks(p models.Plan, avail models.Availability, startDate time.Time) []models.WeekPlan {
	sessions := avail.SessionsPerWeek
	if sessions <= 0 {
		sessions = Tuning.DefaultSessions
	}
	if n := len(availableIndices(avail.Days)); sessions > n {
		sessions = n
	}

	var weeks []models.WeekPlan
	weekNum := 0

	for _, cycle := range p.Cycles {
		cycleStart := cycle.Start
		if cycleStart.IsZero() {
			cycleStart = startDate
		}
		cycleStart = startOfWeek(cycleStart)

		dist := models.DistanceHalf
		if cycle.Objective != nil {
			dist = cycle.Objective.Distance
		}
		phaseLen := map[models.Phase]int{
			models.PhaseBase:  cycle.Allocation.Base,
			models.PhaseBuild: cycle.Allocation.Build,
			models.PhasePeak:  cycle.Allocation.Peak,
			models.PhaseTaper: cycle.Allocation.Taper,
		}

		weekInPhase := 0
		var prevPhase models.Phase
		for i, rec := range cycle.Schedule {
			if rec.Phase != prevPhase {
				weekInPhase = 0
				prevPhase = rec.Phase
			}
			weekInPhase++
			weekNum++

			progress := phaseProgress(weekInPhase, phaseLen[rec.Phase])
			weekStart := cycleStart.AddDate(0, 0, 7*i)

			weeks = append(weeks, g.generateWeek(weekCtx{
				number:      weekNum,
				record:      rec,
				phaseLen:    phaseLen[rec.Phase],
				weekInPhase: weekInPhase,
				progress:    progress,
				sessions:    sessions,
				distance:    dist,
				start:       weekStart,
				days:        avail.Days,
			}))
			g.rotate()
		}
	}
	return weeks
}

// weekCtx bundles everything one week's generation needs.
type weekCtx struct {
	number      int
	record      models.WeekRecord
	phaseLen    int
	weekInPhase int
	progress    float64
	sessions    int
	distance    models.DistanceCategory
	start       time.Time
	days        []time.Weekday
}

func (g *Generator) generateWeek(ctx weekCtx) models.WeekPlan {
	rec := ctx.record

	slots := BuildSlots(rec.Phase, ctx.progress, ctx.sessions, rec.Deload, ctx.distance, rec.VolumeKm)

	resolved := make([]models.Session, len(slots))
	for i, slot := range slots {
		resolved[i] = g.Resolve(slot, rec.Phase, ctx.weekInPhase, ctx.distance)
	}

	g.distribute(resolved, slots, rec.VolumeKm, rec.Phase, ctx.distance, rec.Deload)
	week := assignDays(resolved, slots, ctx.start, ctx.days)

	total := 0.0
	for _, s := range week {
		total += s.DistanceKm
	}

	return models.WeekPlan{
		Week:      ctx.number,
		Phase:     rec.Phase,
		VolumeKm:  rec.VolumeKm,
		Deload:    rec.Deload,
		Sessions:  week,
		TotalKm:   round1(total),
		Start:     ctx.start,
		End:       ctx.start.AddDate(0, 0, 6),
		Objective: phaseObjective[rec.Phase],
	}
}

// phaseProgress maps the week position to [0,1] within its phase.
func phaseProgress(weekInPhase, phaseLen int) float64 {
	if phaseLen <= 1 {
		return 1
	}
	return float64(weekInPhase-1) / float64(phaseLen-1)
}

// startOfWeek normalizes a date back to its Monday.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
