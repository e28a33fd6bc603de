package session

import (
	"math"

	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/vdot"
)

// distribute allocates the week's total distance across the resolved
// sessions. Share-driven slots get their fraction (the long run under a
// distance and a duration cap); leftover volume is split across the easy
// and recovery slots, weighted toward the "long" easy variants. Continuous
// session durations are recomputed from final distances; interval durations
// come from their structure and are left untouched.
func (g *Generator) distribute(sessions []models.Session, slots []Slot, weekKm float64, phase models.Phase, d models.DistanceCategory, deload bool) {
	allocated := 0.0
	for i, slot := range slots {
		if slot.Share <= 0 {
			continue
		}
		km := weekKm * slot.Share
		if slot.Role == RoleLong {
			km = g.capLongRun(km, phase, d)
		}
		sessions[i].DistanceKm = round1(km)
		allocated += sessions[i].DistanceKm
	}

	leftover := weekKm - allocated
	if leftover < 0 {
		leftover = 0
	}
	totalWeight := 0.0
	for _, slot := range slots {
		if slot.Share == 0 {
			totalWeight += easyWeight(slot)
		}
	}
	if totalWeight > 0 {
		for i, slot := range slots {
			if slot.Share == 0 {
				sessions[i].DistanceKm = round1(leftover * easyWeight(slot) / totalWeight)
			}
		}
	}

	if deload {
		for i := range sessions {
			sessions[i].DistanceKm = round1(sessions[i].DistanceKm * Tuning.DeloadScale)
			sessions[i].Notes = appendNote(sessions[i].Notes,
				"Deload week: volume reduced to absorb the preceding training.")
		}
	}

	for i := range sessions {
		g.refreshDuration(&sessions[i])
	}
}

func easyWeight(slot Slot) float64 {
	if slot.LongVariant {
		return Tuning.EasyLongWeight
	}
	return Tuning.EasyShortWeight
}

// capLongRun enforces the distance cap and the per-phase duration cap,
// converting the duration bound back to km at the easy-zone mid pace.
func (g *Generator) capLongRun(km float64, phase models.Phase, d models.DistanceCategory) float64 {
	if max, ok := longRunCapKm[d]; ok && km > max {
		km = max
	}
	maxMin, ok := longRunMaxMin[phase][d]
	if !ok {
		return km
	}
	midPace := g.zones[vdot.ZoneEasy].Mid()
	if midPace <= 0 {
		return km
	}
	if estMin := km * midPace / 60; estMin > maxMin {
		km = maxMin * 60 / midPace
	}
	return km
}

// refreshDuration recomputes a distance-based session's duration so it
// stays consistent with the final distance. Sessions whose duration comes
// from a fixed interval structure keep it.
func (g *Generator) refreshDuration(s *models.Session) {
	if s.Rest || s.Type.Quality() && s.DurationMin > 0 {
		return
	}
	zone, ok := defaultZone[s.Type]
	if !ok {
		return
	}
	run := s.DistanceKm * g.zones[zone].Mid() / 60
	extra := 0.0
	if s.Warmup != nil {
		extra += s.Warmup.DurationMin
	}
	if s.Cooldown != nil {
		extra += s.Cooldown.DurationMin
	}
	s.DurationMin = math.Round(run + extra)
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + " " + note
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
