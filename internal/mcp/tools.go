package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/claude/stride/internal/engine"
	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/periodization"
	"github.com/claude/stride/internal/vdot"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

func parsePositiveFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", name)
	}
	return v, nil
}

func parsePositiveInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

// optionalFloat parses a numeric parameter, falling back to def when absent.
func optionalFloat(name, s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return parsePositiveFloat(name, s)
}

func parseDistance(s string) (models.DistanceCategory, error) {
	switch d := models.DistanceCategory(s); d {
	case models.Distance5K, models.Distance10K, models.DistanceHalf, models.DistanceMarathon:
		return d, nil
	}
	return "", fmt.Errorf("unknown distance %q (want 5km, 10km, half, or marathon)", s)
}

// --- Tool definitions ---

var toolComputePaceZones = mcp.NewTool("compute_pace_zones",
	mcp.WithDescription("Compute the fitness index and the full 7-zone pace table from a recent race or time-trial performance."),
	mcp.WithString("distance_m", mcp.Required(), mcp.Description("Race distance in meters (e.g. 10000)")),
	mcp.WithString("time_s", mcp.Required(), mcp.Description("Finish time in seconds (e.g. 2400 for 40:00)")),
)

var toolPreviewPhaseAllocation = mcp.NewTool("preview_phase_allocation",
	mcp.WithDescription("Preview how a training cycle splits into base/build/peak/taper phases, including deload placement. Infeasible cycles come back with valid=false and warnings."),
	mcp.WithString("total_weeks", mcp.Required(), mcp.Description("Cycle length in weeks")),
	mcp.WithString("distance", mcp.Required(), mcp.Description("Target race distance"), mcp.Enum("5km", "10km", "half", "marathon")),
	mcp.WithString("est_peak_volume_km", mcp.Description("Estimated peak weekly volume in km. Affects taper length for high-volume runners.")),
	mcp.WithString("first_cycle", mcp.Description("Whether this is the first cycle of the plan. Defaults to true."), mcp.Enum("true", "false")),
	mcp.WithString("plan_total_weeks", mcp.Description("Total plan length in weeks. Defaults to total_weeks.")),
)

var toolPreviewVolumeSchedule = mcp.NewTool("preview_volume_schedule",
	mcp.WithDescription("Preview the week-by-week volume schedule for a cycle: phase per week, weekly km, and deload weeks."),
	mcp.WithString("total_weeks", mcp.Required(), mcp.Description("Cycle length in weeks")),
	mcp.WithString("distance", mcp.Required(), mcp.Description("Target race distance"), mcp.Enum("5km", "10km", "half", "marathon")),
	mcp.WithString("start_km", mcp.Description("Starting weekly volume in km. Defaults to 40.")),
	mcp.WithString("annual_weekly_km", mcp.Description("Average weekly volume over the last year. Defaults to start_km.")),
	mcp.WithString("recent_4week_km", mcp.Description("Average weekly volume over the last 4 weeks. Defaults to start_km.")),
)

var toolGeneratePlan = mcp.NewTool("generate_plan",
	mcp.WithDescription("Generate a complete training plan: pace zones, phase allocation, weekly volumes, and fully scheduled sessions for every week. With an objective the plan targets the race; without one a 24-week continuous plan is built."),
	mcp.WithString("reference_distance_m", mcp.Required(), mcp.Description("Reference race distance in meters")),
	mcp.WithString("reference_time_s", mcp.Required(), mcp.Description("Reference race finish time in seconds")),
	mcp.WithString("start", mcp.Description("Plan start date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("objective_date", mcp.Description("Target race date. Omit for a continuous plan.")),
	mcp.WithString("objective_distance", mcp.Description("Target race distance. Required when objective_date is set."), mcp.Enum("5km", "10km", "half", "marathon")),
	mcp.WithString("objective_name", mcp.Description("Display name of the target race")),
	mcp.WithString("sessions_per_week", mcp.Description("Sessions per week (2-7). Defaults to 4.")),
	mcp.WithString("year_km", mcp.Description("Total km run over the last 12 months")),
	mcp.WithString("avg_4week_km", mcp.Description("Average weekly km over the last 4 weeks")),
	mcp.WithString("last_week_km", mcp.Description("Km run in the most recent full week")),
)

var toolListTemplates = mcp.NewTool("list_workout_templates",
	mcp.WithDescription("List the workout template catalog, optionally filtered by session type and phase."),
	mcp.WithString("type", mcp.Description("Filter by session type"), mcp.Enum("EF", "SL", "SEUIL", "VMA", "TEMPO", "RECUP")),
	mcp.WithString("phase", mcp.Description("Filter by training phase"), mcp.Enum("base", "build", "peak", "taper")),
)

// --- Tool handlers ---

func (h *handlers) computePaceZones(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	distStr, err := req.RequireString("distance_m")
	if err != nil {
		return mcp.NewToolResultError("distance_m parameter is required"), nil
	}
	timeStr, err := req.RequireString("time_s")
	if err != nil {
		return mcp.NewToolResultError("time_s parameter is required"), nil
	}

	distance, err := parsePositiveFloat("distance_m", distStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seconds, err := parsePositiveFloat("time_s", timeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	index := vdot.ComputeIndex(distance, seconds)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"fitness_index": index,
		"fitness_label": vdot.Label(index),
		"zones":         engine.ZoneTable(vdot.Zones(index)),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewPhaseAllocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeksStr, err := req.RequireString("total_weeks")
	if err != nil {
		return mcp.NewToolResultError("total_weeks parameter is required"), nil
	}
	distStr, err := req.RequireString("distance")
	if err != nil {
		return mcp.NewToolResultError("distance parameter is required"), nil
	}

	totalWeeks, err := parsePositiveInt("total_weeks", weeksStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := parseDistance(distStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	estPeak, err := optionalFloat("est_peak_volume_km", req.GetString("est_peak_volume_km", ""), 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	firstCycle := req.GetString("first_cycle", "true") != "false"
	planTotalWeeks := totalWeeks
	if s := req.GetString("plan_total_weeks", ""); s != "" {
		planTotalWeeks, err = parsePositiveInt("plan_total_weeks", s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	alloc := periodization.Allocate(totalWeeks, d, estPeak, firstCycle, planTotalWeeks)
	result, err := mcp.NewToolResultJSON(alloc)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewVolumeSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeksStr, err := req.RequireString("total_weeks")
	if err != nil {
		return mcp.NewToolResultError("total_weeks parameter is required"), nil
	}
	distStr, err := req.RequireString("distance")
	if err != nil {
		return mcp.NewToolResultError("distance parameter is required"), nil
	}

	totalWeeks, err := parsePositiveInt("total_weeks", weeksStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := parseDistance(distStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	startKm, err := optionalFloat("start_km", req.GetString("start_km", ""), models.DefaultWeeklyKm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	annualWeekly, err := optionalFloat("annual_weekly_km", req.GetString("annual_weekly_km", ""), startKm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recent4w, err := optionalFloat("recent_4week_km", req.GetString("recent_4week_km", ""), startKm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	estPeak := periodization.CeilingKm(annualWeekly, d)
	alloc := periodization.Allocate(totalWeeks, d, estPeak, true, totalWeeks)
	resp := map[string]any{"allocation": alloc}
	if alloc.Valid {
		resp["schedule"] = periodization.Schedule(alloc, startKm, annualWeekly, recent4w, d)
	}

	result, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	refDistStr, err := req.RequireString("reference_distance_m")
	if err != nil {
		return mcp.NewToolResultError("reference_distance_m parameter is required"), nil
	}
	refTimeStr, err := req.RequireString("reference_time_s")
	if err != nil {
		return mcp.NewToolResultError("reference_time_s parameter is required"), nil
	}

	refDist, err := parsePositiveFloat("reference_distance_m", refDistStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	refTime, err := parsePositiveFloat("reference_time_s", refTimeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := engine.Request{
		Name:      req.GetString("objective_name", ""),
		Start:     time.Now(),
		Reference: engine.ReferenceRace{DistanceMeters: refDist, TimeSeconds: refTime},
	}
	if s := req.GetString("start", ""); s != "" {
		r.Start, err = parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
		}
	}

	if s := req.GetString("objective_date", ""); s != "" {
		date, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid objective_date: " + err.Error()), nil
		}
		d, err := parseDistance(req.GetString("objective_distance", ""))
		if err != nil {
			return mcp.NewToolResultError("objective_distance is required with objective_date: " + err.Error()), nil
		}
		r.Objectives = append(r.Objectives, models.Objective{
			Name:     req.GetString("objective_name", ""),
			Date:     date,
			Distance: d,
			Tier:     models.TierPriority,
		})
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"year_km", &r.History.YearKm},
		{"avg_4week_km", &r.History.Avg4WeekKm},
		{"last_week_km", &r.History.LastWeekKm},
	} {
		*f.dst, err = optionalFloat(f.name, req.GetString(f.name, ""), 0)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if s := req.GetString("sessions_per_week", ""); s != "" {
		r.Availability.SessionsPerWeek, err = parsePositiveInt("sessions_per_week", s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	doc := engine.Generate(r, h.lib)
	result, err := mcp.NewToolResultJSON(doc)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.lib == nil {
		return mcp.NewToolResultError("template catalog not loaded"), nil
	}

	typeFilter := req.GetString("type", "")
	phaseFilter := req.GetString("phase", "")

	templates := []library.Template{}
	for _, t := range h.lib.All() {
		if typeFilter != "" && string(t.Type) != typeFilter {
			continue
		}
		if phaseFilter != "" && string(t.Phase) != phaseFilter {
			continue
		}
		templates = append(templates, t)
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"templates": templates})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
