package models

import "time"

// SessionType tags the physiological intent of a workout. The short codes
// are the coaching vocabulary used throughout the catalog and exports.
type SessionType string

const (
	TypeEasy      SessionType = "EF"    // endurance fondamentale, easy aerobic running
	TypeLong      SessionType = "SL"    // sortie longue, the weekly long run
	TypeThreshold SessionType = "SEUIL" // lactate threshold work
	TypeInterval  SessionType = "VMA"   // short intervals at vVO2max
	TypeTempo     SessionType = "TEMPO" // sustained race-pace running
	TypeRecovery  SessionType = "RECUP" // recovery jog
	TypeRest      SessionType = "REST"  // no workout
)

// Quality reports whether the type is a high-intensity workout.
func (t SessionType) Quality() bool {
	switch t {
	case TypeThreshold, TypeInterval, TypeTempo:
		return true
	}
	return false
}

// Block is one structured piece of a session: a warmup, a main effort, or a
// cooldown, with a target pace where one applies.
type Block struct {
	Description string  `json:"description"`
	DurationMin float64 `json:"duration_min,omitempty"`
	Pace        string  `json:"pace,omitempty"`
}

// Session is a concrete dated workout. Rest days are represented as a
// Session with Rest=true and no workout content, so a week is always a full
// 7-entry list.
type Session struct {
	Type        SessionType `json:"type"`
	Title       string      `json:"title"`
	Effort      int         `json:"effort"` // target RPE 1-10
	DistanceKm  float64     `json:"distance_km,omitempty"`
	DurationMin float64     `json:"duration_min,omitempty"`
	Warmup      *Block      `json:"warmup,omitempty"`
	Main        []Block     `json:"main,omitempty"`
	Cooldown    *Block      `json:"cooldown,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Tips        []string    `json:"tips,omitempty"`
	TemplateID  string      `json:"template_id,omitempty"`
	Date        time.Time   `json:"date"`
	Weekday     string      `json:"weekday"`
	Rest        bool        `json:"rest,omitempty"`
}

// WeekPlan is the externally consumable unit: one fully scheduled week.
type WeekPlan struct {
	Week      int       `json:"week"`
	Phase     Phase     `json:"phase"`
	VolumeKm  float64   `json:"volume_km"`
	Deload    bool      `json:"deload"`
	Sessions  []Session `json:"sessions"` // always 7 entries, Monday..Sunday
	TotalKm   float64   `json:"total_km"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Objective string    `json:"objective,omitempty"` // phase objective text
}
