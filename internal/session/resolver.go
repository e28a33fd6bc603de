package session

import (
	"fmt"
	"math"

	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/vdot"
)

// Generator resolves slots into concrete sessions. It carries the
// anti-repetition state (template ids used this week and the week before)
// across calls, so each plan generation owns its own Generator.
type Generator struct {
	lib      *library.Catalog
	zones    vdot.ZoneSet
	prevUsed map[models.SessionType]map[string]bool
	curUsed  map[models.SessionType]map[string]bool
}

// NewGenerator creates a Generator. lib may be nil; every slot then falls
// through to the synthesized-session path.
func NewGenerator(lib *library.Catalog, zones vdot.ZoneSet) *Generator {
	return &Generator{
		lib:      lib,
		zones:    zones,
		prevUsed: make(map[models.SessionType]map[string]bool),
		curUsed:  make(map[models.SessionType]map[string]bool),
	}
}

// rotate ends the current week: this week's template ids become the next
// week's exclusion seed.
func (g *Generator) rotate() {
	g.prevUsed = g.curUsed
	g.curUsed = make(map[models.SessionType]map[string]bool)
}

// excluded returns the anti-repetition set for a type: everything used this
// week or the week before.
func (g *Generator) excluded(t models.SessionType) map[string]bool {
	out := make(map[string]bool)
	for id := range g.prevUsed[t] {
		out[id] = true
	}
	for id := range g.curUsed[t] {
		out[id] = true
	}
	return out
}

func (g *Generator) markUsed(t models.SessionType, id string) {
	if g.curUsed[t] == nil {
		g.curUsed[t] = make(map[string]bool)
	}
	g.curUsed[t][id] = true
}

// Resolve maps a slot to a concrete session. The lookup cascade never
// fails: exact effort match, then level-nearest within the phase, then a
// synthesized generic workout.
func (g *Generator) Resolve(slot Slot, phase models.Phase, weekInPhase int, d models.DistanceCategory) models.Session {
	if g.lib != nil {
		exclude := g.excluded(slot.Type)

		if matches := g.lib.Find(slot.Type, phase, slot.Effort, d, exclude); len(matches) > 0 {
			tpl := closestLevel(matches, slot.Effort)
			g.markUsed(slot.Type, tpl.ID)
			return g.fromTemplate(tpl, slot)
		}

		if pool := excludeIDs(g.lib.ByPhase(slot.Type, phase, d), exclude); len(pool) > 0 {
			// No effort match: fall back to the week position as a
			// difficulty target.
			target := weekInPhase + 2
			if target > 10 {
				target = 10
			}
			tpl := closestLevel(pool, target)
			g.markUsed(slot.Type, tpl.ID)
			return g.fromTemplate(tpl, slot)
		}
	}

	return g.synthesize(slot, phase)
}

// closestLevel picks the template whose level is nearest the target,
// scanning in catalog order so selection is deterministic.
func closestLevel(templates []library.Template, target int) library.Template {
	best := templates[0]
	bestDist := math.Abs(float64(best.Level - target))
	for _, t := range templates[1:] {
		if d := math.Abs(float64(t.Level - target)); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

func excludeIDs(templates []library.Template, exclude map[string]bool) []library.Template {
	var out []library.Template
	for _, t := range templates {
		if !exclude[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// fromTemplate builds a session from a catalog template. Interval sessions
// get their duration from the repetition structure; continuous sessions are
// left with a placeholder duration until the volume distributor fixes their
// distance.
func (g *Generator) fromTemplate(tpl library.Template, slot Slot) models.Session {
	s := models.Session{
		Type:       tpl.Type,
		Title:      tpl.Title,
		Effort:     slot.Effort,
		Notes:      tpl.Notes,
		Tips:       tpl.Tips,
		TemplateID: tpl.ID,
	}

	if tpl.WarmupMin > 0 {
		s.Warmup = g.warmupBlock(tpl.WarmupMin)
	}
	if tpl.CooldownMin > 0 {
		s.Cooldown = g.cooldownBlock(tpl.CooldownMin)
	}

	zone := tpl.Structure.Zone
	if zone == "" {
		zone = defaultZone[tpl.Type]
	}

	if tpl.Structure.Interval() {
		s.Main = []models.Block{g.intervalBlock(tpl.Structure, zone)}
		s.DurationMin = g.intervalDuration(tpl)
	} else if len(tpl.Structure.Splits) > 0 {
		for _, sp := range tpl.Structure.Splits {
			s.Main = append(s.Main, models.Block{
				Description: fmt.Sprintf("%.0f%% at %s pace", sp.Percent, sp.Zone),
				Pace:        vdot.FormatRange(g.zones[sp.Zone]),
			})
		}
	} else {
		s.Main = []models.Block{{
			Description: fmt.Sprintf("Continuous at %s pace", zone),
			Pace:        vdot.FormatRange(g.zones[zone]),
		}}
	}

	return s
}

// intervalBlock renders the repetition structure as one main block.
func (g *Generator) intervalBlock(st library.Structure, zone vdot.Zone) models.Block {
	var work string
	switch {
	case st.WorkDistanceM > 0:
		work = fmt.Sprintf("%.0fm", st.WorkDistanceM)
	default:
		work = formatMinutes(st.WorkMin)
	}
	desc := fmt.Sprintf("%d x %s at %s pace", st.Reps, work, zone)
	if st.Reps == 1 {
		desc = fmt.Sprintf("%s at %s pace", work, zone)
	}
	if st.RecoveryMin > 0 {
		desc += fmt.Sprintf(" (%s jog recovery)", formatMinutes(st.RecoveryMin))
	}
	return models.Block{
		Description: desc,
		DurationMin: float64(st.Reps)*g.workMinutes(st, zone) + float64(st.Reps-1)*st.RecoveryMin,
		Pace:        vdot.FormatRange(g.zones[zone]),
	}
}

// workMinutes estimates one repetition's duration, from the stated work
// time or from the rep distance at the zone's mid pace.
func (g *Generator) workMinutes(st library.Structure, zone vdot.Zone) float64 {
	if st.WorkMin > 0 {
		return st.WorkMin
	}
	if st.WorkDistanceM > 0 {
		return st.WorkDistanceM / 1000 * g.zones[zone].Mid() / 60
	}
	return 0
}

// intervalDuration totals warmup, work, recoveries, and cooldown.
func (g *Generator) intervalDuration(tpl library.Template) float64 {
	st := tpl.Structure
	zone := st.Zone
	if zone == "" {
		zone = defaultZone[tpl.Type]
	}
	work := float64(st.Reps) * g.workMinutes(st, zone)
	rec := float64(st.Reps-1) * st.RecoveryMin
	if rec < 0 {
		rec = 0
	}
	return math.Round(tpl.WarmupMin + work + rec + tpl.CooldownMin)
}

// synthesize builds a minimal generic workout when the catalog has nothing
// for the slot. This path must always produce a usable session.
func (g *Generator) synthesize(slot Slot, phase models.Phase) models.Session {
	zone, ok := defaultZone[slot.Type]
	if !ok {
		zone = vdot.ZoneEasy
	}

	s := models.Session{
		Type:   slot.Type,
		Title:  genericTitle(slot.Type),
		Effort: slot.Effort,
		Main: []models.Block{{
			Description: fmt.Sprintf("Continuous at %s pace", zone),
			Pace:        vdot.FormatRange(g.zones[zone]),
		}},
	}
	if slot.Type.Quality() {
		s.Warmup = g.warmupBlock(Tuning.DefaultWarmupMin)
		s.Cooldown = g.cooldownBlock(Tuning.DefaultCooldownMin)
		if phase == models.PhaseTaper {
			s.Warmup = g.warmupBlock(10)
			s.Cooldown = g.cooldownBlock(5)
		}
	}
	return s
}

func genericTitle(t models.SessionType) string {
	switch t {
	case models.TypeLong:
		return "Long run"
	case models.TypeRecovery:
		return "Recovery jog"
	case models.TypeThreshold:
		return "Threshold session"
	case models.TypeInterval:
		return "Interval session"
	case models.TypeTempo:
		return "Tempo run"
	default:
		return "Easy run"
	}
}

func (g *Generator) warmupBlock(minutes float64) *models.Block {
	return &models.Block{
		Description: "Warmup jog",
		DurationMin: minutes,
		Pace:        vdot.FormatRange(g.zones[vdot.ZoneEasy]),
	}
}

func (g *Generator) cooldownBlock(minutes float64) *models.Block {
	return &models.Block{
		Description: "Cooldown jog",
		DurationMin: minutes,
		Pace:        vdot.FormatRange(g.zones[vdot.ZoneEasy]),
	}
}

func formatMinutes(min float64) string {
	whole := int(min)
	if min == float64(whole) {
		return fmt.Sprintf("%d'", whole)
	}
	return fmt.Sprintf("%d'%02.0f", whole, (min-float64(whole))*60)
}
