// Package engine is the facade the serving surfaces share: one request in,
// one complete plan document out. It wires the fitness model, the phase and
// volume scheduler, and the session generator together; transports (HTTP,
// CLI, MCP) stay thin.
package engine

import (
	"time"

	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/plan"
	"github.com/claude/stride/internal/session"
	"github.com/claude/stride/internal/vdot"
)

// ReferenceRace is the performance the pace zones are derived from.
type ReferenceRace struct {
	DistanceMeters float64 `json:"distance_meters"`
	TimeSeconds    float64 `json:"time_seconds"`
}

// Request carries everything needed to generate a plan.
type Request struct {
	Name         string                `json:"name,omitempty"`
	Start        time.Time             `json:"start"`
	Reference    ReferenceRace         `json:"reference"`
	Objectives   []models.Objective    `json:"objectives,omitempty"`
	History      models.AthleteHistory `json:"history"`
	Availability models.Availability   `json:"availability"`
}

// ZoneInfo is one pace zone of the output document, ordered by intensity.
type ZoneInfo struct {
	Zone         string  `json:"zone"`
	SlowSecPerKm float64 `json:"slow_sec_per_km"`
	FastSecPerKm float64 `json:"fast_sec_per_km"`
	Display      string  `json:"display"`
}

// CycleSummary describes one cycle without repeating its week-by-week detail.
type CycleSummary struct {
	Type       models.CycleType       `json:"type"`
	Objective  *models.Objective      `json:"objective,omitempty"`
	Allocation models.PhaseAllocation `json:"allocation"`
	Start      time.Time              `json:"start"`
	Weeks      int                    `json:"weeks"`
}

// Document is the complete generated plan as served to every transport.
type Document struct {
	Name         string            `json:"name,omitempty"`
	Start        time.Time         `json:"start"`
	FitnessIndex float64           `json:"fitness_index"`
	FitnessLabel string            `json:"fitness_label"`
	Zones        []ZoneInfo        `json:"zones"`
	Cycles       []CycleSummary    `json:"cycles"`
	Weeks        []models.WeekPlan `json:"weeks"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Generate runs the full pipeline. A nil catalog is allowed; sessions are
// then synthesized instead of template-backed.
func Generate(req Request, lib *library.Catalog) Document {
	index := vdot.ComputeIndex(req.Reference.DistanceMeters, req.Reference.TimeSeconds)
	zones := vdot.Zones(index)

	p := plan.Build(req.Start, req.Objectives, req.History)
	weeks := session.Generate(p, req.Availability, zones, lib, req.Start)

	doc := Document{
		Name:         req.Name,
		Start:        req.Start,
		FitnessIndex: index,
		FitnessLabel: vdot.Label(index),
		Zones:        ZoneTable(zones),
		Weeks:        weeks,
		Warnings:     p.Warnings,
	}
	for _, c := range p.Cycles {
		doc.Cycles = append(doc.Cycles, CycleSummary{
			Type:       c.Type,
			Objective:  c.Objective,
			Allocation: c.Allocation,
			Start:      c.Start,
			Weeks:      len(c.Schedule),
		})
	}
	return doc
}

// ZoneTable flattens a zone set into the ordered output form.
func ZoneTable(zones vdot.ZoneSet) []ZoneInfo {
	out := make([]ZoneInfo, 0, len(vdot.ZoneOrder))
	for _, z := range vdot.ZoneOrder {
		r := zones[z]
		out = append(out, ZoneInfo{
			Zone:         string(z),
			SlowSecPerKm: r.SlowSecPerKm,
			FastSecPerKm: r.FastSecPerKm,
			Display:      vdot.FormatRange(r),
		})
	}
	return out
}
