package models

import "time"

// Phase is one training phase within a cycle. Phases are ordered and
// non-repeating: Base -> Build -> Peak -> Taper.
type Phase string

const (
	PhaseBase  Phase = "base"
	PhaseBuild Phase = "build"
	PhasePeak  Phase = "peak"
	PhaseTaper Phase = "taper"
)

// DistanceCategory is a target race distance bucket.
type DistanceCategory string

const (
	Distance5K       DistanceCategory = "5km"
	Distance10K      DistanceCategory = "10km"
	DistanceHalf     DistanceCategory = "half"
	DistanceMarathon DistanceCategory = "marathon"
)

// Meters returns the nominal race distance in meters.
func (d DistanceCategory) Meters() float64 {
	switch d {
	case Distance5K:
		return 5000
	case Distance10K:
		return 10000
	case DistanceHalf:
		return 21097.5
	case DistanceMarathon:
		return 42195
	default:
		return 10000
	}
}

// PriorityTier ranks an objective. Only Priority objectives drive cycle
// boundaries; Secondary and Auxiliary races are run through training.
type PriorityTier string

const (
	TierPriority  PriorityTier = "priority"
	TierSecondary PriorityTier = "secondary"
	TierAuxiliary PriorityTier = "auxiliary"
)

// Objective is an athlete-declared target race.
type Objective struct {
	Name     string           `json:"name,omitempty"`
	Date     time.Time        `json:"date"`
	Distance DistanceCategory `json:"distance"`
	Tier     PriorityTier     `json:"tier"`
}

// TaperKind tags how aggressive the pre-race reduction is.
type TaperKind string

const (
	TaperNone     TaperKind = "none"
	TaperShort    TaperKind = "short"
	TaperStandard TaperKind = "standard"
	TaperExtended TaperKind = "extended"
)

// PhaseAllocation is the integer week split of one cycle. When Valid is
// false the cycle cannot be built and Warnings says why; callers must check
// Valid before using the week counts.
type PhaseAllocation struct {
	Base        int       `json:"base"`
	Build       int       `json:"build"`
	Peak        int       `json:"peak"`
	Taper       int       `json:"taper"`
	TaperType   TaperKind `json:"taper_type"`
	DeloadWeeks []int     `json:"deload_weeks,omitempty"` // 1-based indices within Build
	Valid       bool      `json:"valid"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// TotalWeeks returns the sum of all phase week counts.
func (a PhaseAllocation) TotalWeeks() int {
	return a.Base + a.Build + a.Peak + a.Taper
}

// WeekRecord is one week of the volume schedule.
type WeekRecord struct {
	Week     int     `json:"week"` // 1-based, cycle-relative
	Phase    Phase   `json:"phase"`
	VolumeKm float64 `json:"volume_km"` // one decimal
	Deload   bool    `json:"deload"`
}

// CycleType distinguishes race-targeted cycles from open-ended ones.
type CycleType string

const (
	CycleRace       CycleType = "race"
	CycleContinuous CycleType = "continuous"
)

// Cycle is one training cycle: either targeted at an objective or a
// continuous maintenance block (Objective == nil).
type Cycle struct {
	Objective  *Objective      `json:"objective,omitempty"`
	Allocation PhaseAllocation `json:"allocation"`
	Schedule   []WeekRecord    `json:"schedule"`
	Start      time.Time       `json:"start"`
	Type       CycleType       `json:"type"`
}

// Plan is an ordered list of non-overlapping cycles plus advisory warnings.
type Plan struct {
	Start    time.Time `json:"start"`
	Cycles   []Cycle   `json:"cycles"`
	Warnings []string  `json:"warnings,omitempty"`
}

// TotalWeeks returns the number of scheduled weeks across all cycles.
func (p Plan) TotalWeeks() int {
	n := 0
	for _, c := range p.Cycles {
		n += len(c.Schedule)
	}
	return n
}

// AthleteHistory is the training-volume history the scheduler works from.
// Nonpositive fields are coerced to safe defaults rather than rejected.
type AthleteHistory struct {
	YearKm      float64 `json:"year_km"`       // total km over the last 12 months
	Avg4WeekKm  float64 `json:"avg_4week_km"`  // average weekly km over the last 4 weeks
	LastWeekKm  float64 `json:"last_week_km"`  // most recent full week
}

// AnnualWeeklyKm returns the annual average expressed per week.
func (h AthleteHistory) AnnualWeeklyKm() float64 {
	if h.YearKm <= 0 {
		return DefaultWeeklyKm
	}
	return h.YearKm / 52
}

// DefaultWeeklyKm is the fallback weekly volume used when history fields are
// missing or malformed.
const DefaultWeeklyKm = 40.0

// Availability describes which days the athlete can train and how many
// sessions per week the plan should schedule.
type Availability struct {
	SessionsPerWeek int            `json:"sessions_per_week"`
	Days            []time.Weekday `json:"days"`
}
