// Package vdot estimates a runner's fitness index from a reference race
// performance and derives training pace zones from it.
//
// The index is the Daniels-Gilbert VDOT model: oxygen cost is a quadratic in
// running velocity, and the sustainable fraction of VO2max decays with race
// duration as a sum of two exponentials. Pace zones invert the quadratic at
// fixed intensity fractions.
package vdot

import (
	"fmt"
	"math"
)

// Daniels-Gilbert coefficients. Velocity is in meters per minute, duration
// in minutes.
const (
	oxygenA = -4.60
	oxygenB = 0.182258
	oxygenC = 0.000104

	fracBase  = 0.8
	fracSlowK = 0.1894393
	fracSlowL = -0.012778
	fracFastK = 0.2989558
	fracFastL = -0.1932605
)

// maxPaceSecPerKm is the clamp applied when the quadratic has no usable
// positive root. Degenerate inputs degrade to a very slow pace, never an
// error.
const maxPaceSecPerKm = 900

// Zone is a named training-intensity band.
type Zone string

const (
	ZoneRecovery   Zone = "recovery"
	ZoneEasy       Zone = "easy"
	ZoneMarathon   Zone = "marathon"
	ZoneTempo      Zone = "tempo"
	ZoneThreshold  Zone = "threshold"
	ZoneInterval   Zone = "interval"
	ZoneRepetition Zone = "repetition"
)

// ZoneOrder lists the zones by increasing intensity rank.
var ZoneOrder = []Zone{
	ZoneRecovery, ZoneEasy, ZoneMarathon, ZoneTempo,
	ZoneThreshold, ZoneInterval, ZoneRepetition,
}

// zoneFractions maps each zone to its [slow, fast] fraction of VO2max. The
// fast bound of one zone is the slow bound of the next, so the bands nest
// without gaps.
var zoneFractions = map[Zone][2]float64{
	ZoneRecovery:   {0.55, 0.65},
	ZoneEasy:       {0.65, 0.74},
	ZoneMarathon:   {0.74, 0.84},
	ZoneTempo:      {0.84, 0.88},
	ZoneThreshold:  {0.88, 0.92},
	ZoneInterval:   {0.92, 1.00},
	ZoneRepetition: {1.00, 1.08},
}

// PaceRange is a pace band in seconds per kilometer. Slow > Fast because a
// slower pace is a larger number.
type PaceRange struct {
	SlowSecPerKm float64 `json:"slow_sec_per_km"`
	FastSecPerKm float64 `json:"fast_sec_per_km"`
}

// Mid returns the midpoint pace of the range.
func (p PaceRange) Mid() float64 {
	return (p.SlowSecPerKm + p.FastSecPerKm) / 2
}

// ZoneSet holds the full pace-zone table for one fitness index.
type ZoneSet map[Zone]PaceRange

// ComputeIndex derives the fitness index from a reference race of
// distanceMeters covered in timeSeconds. Nonpositive inputs return 0.
func ComputeIndex(distanceMeters, timeSeconds float64) float64 {
	if distanceMeters <= 0 || timeSeconds <= 0 {
		return 0
	}
	minutes := timeSeconds / 60
	velocity := distanceMeters / minutes // m/min

	oxygenCost := oxygenA + oxygenB*velocity + oxygenC*velocity*velocity
	fraction := fracBase + fracSlowK*math.Exp(fracSlowL*minutes) + fracFastK*math.Exp(fracFastL*minutes)
	if fraction <= 0 || oxygenCost <= 0 {
		return 0
	}
	return math.Round(oxygenCost/fraction*10) / 10
}

// PaceFor inverts the oxygen-cost quadratic at the given intensity fraction
// and returns the equivalent pace in seconds per kilometer. Inputs with no
// positive root clamp to a very slow pace.
func PaceFor(index, fraction float64) float64 {
	target := index * fraction
	disc := oxygenB*oxygenB + 4*oxygenC*(target-oxygenA)
	if disc <= 0 {
		return maxPaceSecPerKm
	}
	velocity := (-oxygenB + math.Sqrt(disc)) / (2 * oxygenC) // m/min
	if velocity <= 0 {
		return maxPaceSecPerKm
	}
	pace := 60000 / velocity
	if pace > maxPaceSecPerKm {
		return maxPaceSecPerKm
	}
	return math.Round(pace)
}

// Zones evaluates the inverse pace function at every zone's fraction pair.
// It always returns all 7 zones; a degenerate index yields uniformly slow
// paces rather than failing.
func Zones(index float64) ZoneSet {
	set := make(ZoneSet, len(ZoneOrder))
	for _, z := range ZoneOrder {
		f := zoneFractions[z]
		set[z] = PaceRange{
			SlowSecPerKm: PaceFor(index, f[0]),
			FastSecPerKm: PaceFor(index, f[1]),
		}
	}
	return set
}

// Label buckets an index into a human-readable fitness level.
func Label(index float64) string {
	switch {
	case index >= 75:
		return "Elite"
	case index >= 65:
		return "Highly Competitive"
	case index >= 55:
		return "Competitive"
	case index >= 45:
		return "Advanced"
	case index >= 38:
		return "Intermediate"
	case index >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}

// FormatPace renders a sec/km pace as m'ss/km.
func FormatPace(secPerKm float64) string {
	s := int(math.Round(secPerKm))
	return fmt.Sprintf("%d'%02d/km", s/60, s%60)
}

// FormatRange renders a pace range as "m'ss-m'ss/km", slow bound first.
func FormatRange(r PaceRange) string {
	slow := int(math.Round(r.SlowSecPerKm))
	fast := int(math.Round(r.FastSecPerKm))
	return fmt.Sprintf("%d'%02d-%d'%02d/km", slow/60, slow%60, fast/60, fast%60)
}
