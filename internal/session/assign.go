package session

import (
	"sort"
	"time"

	"github.com/claude/stride/internal/models"
)

// qualityPreferredDays are the mid-week day indices (Monday=0) tried first
// for quality sessions.
var qualityPreferredDays = []int{1, 2, 3} // Tue, Wed, Thu

// assignDays places the resolved sessions onto calendar days and fills the
// remaining days with explicit rest entries, returning the full 7-entry
// Monday..Sunday list.
//
// Placement is greedy: the long run takes a weekend day when one is
// available (else the latest available day); quality sessions prefer
// mid-week days that are not calendar-adjacent to another hard session or
// the long run; easy sessions fill what is left. A locally-best day is
// accepted at each step with no backtracking, so a very dense week can end
// up with a placement a solver would have avoided.
func assignDays(sessions []models.Session, slots []Slot, weekStart time.Time, days []time.Weekday) []models.Session {
	avail := availableIndices(days)
	placed := make([]*models.Session, 7)
	free := make(map[int]bool, len(avail))
	for _, d := range avail {
		free[d] = true
	}

	order := placementOrder(slots)

	for _, i := range order {
		if i >= len(sessions) {
			continue
		}
		var day int
		switch slots[i].Role {
		case RoleLong:
			day = longRunDay(free, avail)
		case RoleHighQuality, RoleLowQuality:
			day = qualityDay(free, avail, placed)
		default:
			day = firstFree(free, avail)
		}
		if day < 0 {
			continue // more sessions than available days; drop the extras
		}
		s := sessions[i]
		placed[day] = &s
		delete(free, day)
	}

	week := make([]models.Session, 7)
	for d := 0; d < 7; d++ {
		date := weekStart.AddDate(0, 0, d)
		if placed[d] != nil {
			week[d] = *placed[d]
		} else {
			week[d] = models.Session{
				Type:  models.TypeRest,
				Title: "Rest",
				Rest:  true,
			}
		}
		week[d].Date = date
		week[d].Weekday = date.Weekday().String()
	}
	return week
}

// placementOrder schedules the most constrained slots first: long run,
// then quality, then everything else.
func placementOrder(slots []Slot) []int {
	var long, quality, rest []int
	for i, s := range slots {
		switch s.Role {
		case RoleLong:
			long = append(long, i)
		case RoleHighQuality, RoleLowQuality:
			quality = append(quality, i)
		default:
			rest = append(rest, i)
		}
	}
	out := append(long, quality...)
	return append(out, rest...)
}

// availableIndices converts the weekday set to sorted Monday=0 indices,
// defaulting to the whole week.
func availableIndices(days []time.Weekday) []int {
	if len(days) == 0 {
		return []int{0, 1, 2, 3, 4, 5, 6}
	}
	seen := make(map[int]bool)
	var idx []int
	for _, d := range days {
		i := (int(d) + 6) % 7 // Monday=0 .. Sunday=6
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return idx
}

// longRunDay prefers Sunday, then Saturday, else the latest available day.
func longRunDay(free map[int]bool, avail []int) int {
	for _, d := range []int{6, 5} {
		if free[d] {
			return d
		}
	}
	for i := len(avail) - 1; i >= 0; i-- {
		if free[avail[i]] {
			return avail[i]
		}
	}
	return -1
}

// qualityDay tries the mid-week preferences first, then any free day, in
// both passes skipping days adjacent to a hard session or the long run.
// When every day violates the spacing constraint it falls back to the first
// free day rather than failing.
func qualityDay(free map[int]bool, avail []int, placed []*models.Session) int {
	for _, d := range qualityPreferredDays {
		if free[d] && !adjacentToHard(d, placed) {
			return d
		}
	}
	for _, d := range avail {
		if free[d] && !adjacentToHard(d, placed) {
			return d
		}
	}
	return firstFree(free, avail)
}

// adjacentToHard reports whether a neighboring day holds a session with
// effort at or above the hard floor, or the long run.
func adjacentToHard(day int, placed []*models.Session) bool {
	for _, n := range []int{day - 1, day + 1} {
		if n < 0 || n > 6 || placed[n] == nil {
			continue
		}
		if placed[n].Effort >= Tuning.HardEffortFloor || placed[n].Type == models.TypeLong {
			return true
		}
	}
	return false
}

func firstFree(free map[int]bool, avail []int) int {
	for _, d := range avail {
		if free[d] {
			return d
		}
	}
	return -1
}
